// internal/steps/personal/controller.go
//
// The personal-details step collects name, date of birth, and mobile
// number. Fields prefill from the profile fetched at login when the keys
// are present under any of their common spellings. The KYC patch is best
// effort: a failed sync is logged and the wizard proceeds on local state.

package personal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlekSi/pointer"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

const minimumAge = 18

// Patcher pushes personal details to the KYC user record. The gateway
// client satisfies it.
type Patcher interface {
	PatchKYCUser(ctx context.Context, token string, patch gateway.KYCUserPatch) error
}

// Controller owns the personal-details form draft.
type Controller struct {
	store *session.Store
	patch Patcher
	log   *logbook.Logbook
	clock func() time.Time

	firstName    string
	lastName     string
	day          string
	month        string
	year         string
	mobileNumber string
}

// Option customizes controller construction.
type Option func(*Controller)

// WithClock lets tests pin the age calculation.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds the controller and prefills the draft from the stored
// profile.
func New(store *session.Store, patch Patcher, log *logbook.Logbook, opts ...Option) *Controller {
	c := &Controller{store: store, patch: patch, log: log, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.prefill()
	return c
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepPersonalDetails,
		Name:        flow.StepPersonalDetails.FriendlyName(),
		Description: "Collect legal name, date of birth, and mobile number.",
	}
}

// prefill copies profile values into empty draft fields. Providers spell
// the keys inconsistently, so each field accepts its known variants.
func (c *Controller) prefill() {
	state := c.store.State()
	if state.PersonalDetails.Completed {
		c.firstName = state.PersonalDetails.FirstName
		c.lastName = state.PersonalDetails.LastName
		c.mobileNumber = state.PersonalDetails.MobileNumber
		c.setDOB(state.PersonalDetails.DateOfBirth)
		return
	}
	profile := state.UserDetails
	c.firstName = profileString(profile, "firstName", "first_name", "firstname")
	c.lastName = profileString(profile, "lastName", "last_name", "lastname")
	c.mobileNumber = profileString(profile, "mobileNumber", "mobile_number", "phoneNumber", "phone")
	c.setDOB(profileString(profile, "dob", "dateOfBirth", "date_of_birth"))
}

func profileString(profile map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := profile[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// setDOB splits a dd-mm-yyyy string into the three draft fields. Malformed
// values leave the fields empty for manual entry.
func (c *Controller) setDOB(dob string) {
	parts := strings.Split(dob, "-")
	if len(parts) != 3 {
		return
	}
	c.day, c.month, c.year = parts[0], parts[1], parts[2]
}

// SetFirstName records the draft first name.
func (c *Controller) SetFirstName(v string) { c.firstName = v }

// SetLastName records the draft last name.
func (c *Controller) SetLastName(v string) { c.lastName = v }

// SetMobileNumber records the draft mobile number.
func (c *Controller) SetMobileNumber(v string) { c.mobileNumber = v }

// SetBirthDay records the day-of-month field.
func (c *Controller) SetBirthDay(v string) { c.day = v }

// SetBirthMonth records the month field.
func (c *Controller) SetBirthMonth(v string) { c.month = v }

// SetBirthYear records the year field.
func (c *Controller) SetBirthYear(v string) { c.year = v }

// FirstName returns the draft first name.
func (c *Controller) FirstName() string { return c.firstName }

// LastName returns the draft last name.
func (c *Controller) LastName() string { return c.lastName }

// MobileNumber returns the draft mobile number.
func (c *Controller) MobileNumber() string { return c.mobileNumber }

// birthDate parses the three date fields into a calendar date.
func (c *Controller) birthDate() (time.Time, error) {
	day, err := strconv.Atoi(strings.TrimSpace(c.day))
	if err != nil {
		return time.Time{}, fmt.Errorf("enter a valid birth day")
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.month))
	if err != nil {
		return time.Time{}, fmt.Errorf("enter a valid birth month")
	}
	year, err := strconv.Atoi(strings.TrimSpace(c.year))
	if err != nil {
		return time.Time{}, fmt.Errorf("enter a valid birth year")
	}
	if year < 1900 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("enter a valid date of birth")
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31 Feb becomes 2-3 Mar), which would
	// silently accept an impossible date.
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("enter a valid date of birth")
	}
	return date, nil
}

// age computes whole years between birth and now.
func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Validate checks the required fields and the minimum age.
func (c *Controller) Validate() error {
	if strings.TrimSpace(c.firstName) == "" {
		return fmt.Errorf("enter your first name")
	}
	if strings.TrimSpace(c.lastName) == "" {
		return fmt.Errorf("enter your last name")
	}
	if strings.TrimSpace(c.mobileNumber) == "" {
		return fmt.Errorf("enter your mobile number")
	}
	birth, err := c.birthDate()
	if err != nil {
		return err
	}
	if age(birth, c.clock()) < minimumAge {
		return fmt.Errorf("you must be at least %d years old", minimumAge)
	}
	return nil
}

// Submit stores the details, syncs them upstream best effort, and
// advances to the address step.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusNeedsInput, Message: err.Error()}, nil
	}
	birth, err := c.birthDate()
	if err != nil {
		return step.Result{Status: step.StatusNeedsInput, Message: err.Error()}, nil
	}
	details := session.SetPersonalDetails{
		FirstName:    strings.TrimSpace(c.firstName),
		LastName:     strings.TrimSpace(c.lastName),
		DateOfBirth:  fmt.Sprintf("%02d-%02d-%04d", birth.Day(), int(birth.Month()), birth.Year()),
		MobileNumber: strings.TrimSpace(c.mobileNumber),
	}

	if err := c.patch.PatchKYCUser(ctx, c.store.AuthToken(), gateway.KYCUserPatch{
		PersonalDetails: &gateway.PersonalPayload{
			FirstName:    pointer.ToString(details.FirstName),
			LastName:     pointer.ToString(details.LastName),
			DateOfBirth:  pointer.ToString(details.DateOfBirth),
			MobileNumber: pointer.ToString(details.MobileNumber),
		},
	}); err != nil {
		c.log.Warn("personal: kyc sync failed: %v", err)
	} else {
		c.store.Dispatch(session.MarkPersonalSynced{})
	}

	c.store.Dispatch(details)
	c.store.CompleteStep(flow.StepPersonalDetails)
	if err := c.store.Advance(flow.StepAddress); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}
