// internal/steps/address/controller.go
//
// The address step runs in one of two modes. Search mode parses a single
// comma-separated line into its components; manual mode exposes one field
// per component. Either way the confirmed address is bundled with the
// stored personal details into one KYC patch, sent best effort.

package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlekSi/pointer"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

// Mode selects how the address is entered.
type Mode int

const (
	ModeSearch Mode = iota
	ModeManual
)

// Patcher pushes the combined personal and address payload upstream. The
// gateway client satisfies it.
type Patcher interface {
	PatchKYCUser(ctx context.Context, token string, patch gateway.KYCUserPatch) error
}

// Fields holds one address draft.
type Fields struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Controller owns the address draft and the entry mode.
type Controller struct {
	store *session.Store
	patch Patcher
	log   *logbook.Logbook

	mode   Mode
	query  string
	fields Fields
}

// New builds the address controller in search mode.
func New(store *session.Store, patch Patcher, log *logbook.Logbook) *Controller {
	return &Controller{store: store, patch: patch, log: log}
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepAddress,
		Name:        flow.StepAddress.FriendlyName(),
		Description: "Collect and sync the residential address.",
	}
}

// Mode reports the active entry mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches between search and manual entry. Switching clears the
// other mode's draft so the two can never mix.
func (c *Controller) SetMode(mode Mode) {
	if mode == c.mode {
		return
	}
	c.mode = mode
	c.query = ""
	c.fields = Fields{}
}

// SetQuery records the search-mode line.
func (c *Controller) SetQuery(query string) {
	c.query = query
}

// SetFields records the manual-mode draft.
func (c *Controller) SetFields(fields Fields) {
	c.fields = fields
}

// Suggestion parses the search line into address components. It needs at
// least five comma-separated parts: line1, city, state, postal code, and
// country, with an optional line2 after line1.
func (c *Controller) Suggestion() (Fields, bool) {
	parts := strings.Split(c.query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 5:
		return Fields{Line1: parts[0], City: parts[1], State: parts[2], PostalCode: parts[3], Country: parts[4]}, complete(parts)
	case 6:
		return Fields{Line1: parts[0], Line2: parts[1], City: parts[2], State: parts[3], PostalCode: parts[4], Country: parts[5]}, parts[0] != "" && complete(parts[2:])
	default:
		return Fields{}, false
	}
}

func complete(parts []string) bool {
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// resolved returns the draft the active mode produces.
func (c *Controller) resolved() (Fields, error) {
	if c.mode == ModeManual {
		return c.fields, validateFields(c.fields)
	}
	fields, ok := c.Suggestion()
	if !ok {
		return Fields{}, fmt.Errorf("enter the address as line1, city, state, postal code, country")
	}
	return fields, nil
}

func validateFields(f Fields) error {
	switch {
	case strings.TrimSpace(f.Line1) == "":
		return fmt.Errorf("enter the first address line")
	case strings.TrimSpace(f.City) == "":
		return fmt.Errorf("enter the city")
	case strings.TrimSpace(f.State) == "":
		return fmt.Errorf("enter the state or region")
	case strings.TrimSpace(f.PostalCode) == "":
		return fmt.Errorf("enter the postal code")
	case strings.TrimSpace(f.Country) == "":
		return fmt.Errorf("enter the country")
	}
	return nil
}

// Validate checks the active mode's draft.
func (c *Controller) Validate() error {
	_, err := c.resolved()
	return err
}

// Submit stores the address, syncs the combined KYC payload best effort,
// and advances to the purpose step.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	fields, err := c.resolved()
	if err != nil {
		return step.Result{Status: step.StatusNeedsInput, Message: err.Error()}, nil
	}
	action := session.SetAddress{
		Line1:       strings.TrimSpace(fields.Line1),
		Line2:       strings.TrimSpace(fields.Line2),
		City:        strings.TrimSpace(fields.City),
		State:       strings.TrimSpace(fields.State),
		PostalCode:  strings.TrimSpace(fields.PostalCode),
		Country:     strings.TrimSpace(fields.Country),
		ManualEntry: c.mode == ModeManual,
	}

	if err := c.patch.PatchKYCUser(ctx, c.store.AuthToken(), c.buildPatch(action)); err != nil {
		c.log.Warn("address: kyc sync failed: %v", err)
	} else {
		c.store.Dispatch(session.MarkAddressSynced{})
	}

	c.store.Dispatch(action)
	c.store.CompleteStep(flow.StepAddress)
	if err := c.store.Advance(flow.StepPurpose); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}

// buildPatch bundles the already-confirmed personal details with the new
// address so the upstream record stays whole even if the earlier personal
// sync was dropped.
func (c *Controller) buildPatch(addr session.SetAddress) gateway.KYCUserPatch {
	patch := gateway.KYCUserPatch{
		AddressDetails: &gateway.AddressPayload{
			AddressLine1: pointer.ToString(addr.Line1),
			City:         pointer.ToString(addr.City),
			State:        pointer.ToString(addr.State),
			PostCode:     pointer.ToString(addr.PostalCode),
			CountryCode:  pointer.ToString(addr.Country),
		},
	}
	if addr.Line2 != "" {
		patch.AddressDetails.AddressLine2 = pointer.ToString(addr.Line2)
	}
	personal := c.store.State().PersonalDetails
	if personal.Completed {
		patch.PersonalDetails = &gateway.PersonalPayload{
			FirstName:    pointer.ToString(personal.FirstName),
			LastName:     pointer.ToString(personal.LastName),
			DateOfBirth:  pointer.ToString(personal.DateOfBirth),
			MobileNumber: pointer.ToString(personal.MobileNumber),
		}
	}
	return patch
}
