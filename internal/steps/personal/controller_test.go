package personal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/session"
)

type fakePatcher struct {
	err   error
	calls int
	last  gateway.KYCUserPatch
}

func (f *fakePatcher) PatchKYCUser(ctx context.Context, token string, patch gateway.KYCUserPatch) error {
	f.calls++
	f.last = patch
	return f.err
}

func newAuthedStore(t *testing.T, profile map[string]any) *session.Store {
	t.Helper()
	store := session.NewStore()
	store.CompleteStep(flow.StepQuote)
	store.CompleteStep(flow.StepWallet)
	store.CompleteStep(flow.StepEmail)
	store.CompleteStep(flow.StepOTP)
	store.Dispatch(session.SetAuthToken{Token: "tok"})
	if profile != nil {
		store.Dispatch(session.SetUserDetails{Profile: profile})
	}
	if err := store.Navigate(flow.StepPersonalDetails); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	return store
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPrefillAcceptsKeyVariants(t *testing.T) {
	cases := []struct {
		name    string
		profile map[string]any
	}{
		{"camelCase", map[string]any{"firstName": "Ada", "lastName": "Lovelace", "mobileNumber": "+44 700", "dob": "10-12-1990"}},
		{"snake_case", map[string]any{"first_name": "Ada", "last_name": "Lovelace", "mobile_number": "+44 700", "date_of_birth": "10-12-1990"}},
		{"lowercase", map[string]any{"firstname": "Ada", "lastname": "Lovelace", "phone": "+44 700", "dateOfBirth": "10-12-1990"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newAuthedStore(t, tc.profile)
			ctrl := New(store, &fakePatcher{}, nil)
			if ctrl.FirstName() != "Ada" || ctrl.LastName() != "Lovelace" || ctrl.MobileNumber() != "+44 700" {
				t.Fatalf("prefill = %q %q %q", ctrl.FirstName(), ctrl.LastName(), ctrl.MobileNumber())
			}
			if ctrl.day != "10" || ctrl.month != "12" || ctrl.year != "1990" {
				t.Fatalf("dob prefill = %q-%q-%q", ctrl.day, ctrl.month, ctrl.year)
			}
		})
	}
}

func TestUnderageRejected(t *testing.T) {
	store := newAuthedStore(t, nil)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(store, &fakePatcher{}, nil, WithClock(fixedClock(now)))
	ctrl.SetFirstName("Kim")
	ctrl.SetLastName("Lee")
	ctrl.SetMobileNumber("+1 555")
	ctrl.SetBirthDay("2")
	ctrl.SetBirthMonth("6")
	ctrl.SetBirthYear("2008")

	if err := ctrl.Validate(); err == nil {
		t.Fatalf("seventeen-year-old accepted")
	}

	// Eighteenth birthday was yesterday.
	ctrl.SetBirthDay("31")
	ctrl.SetBirthMonth("5")
	if err := ctrl.Validate(); err != nil {
		t.Fatalf("eighteen-year-old rejected: %v", err)
	}
}

func TestImpossibleDatesRejected(t *testing.T) {
	store := newAuthedStore(t, nil)
	ctrl := New(store, &fakePatcher{}, nil)
	ctrl.SetFirstName("Kim")
	ctrl.SetLastName("Lee")
	ctrl.SetMobileNumber("+1 555")

	for _, dob := range [][3]string{{"31", "2", "1990"}, {"0", "1", "1990"}, {"1", "13", "1990"}, {"x", "1", "1990"}} {
		ctrl.SetBirthDay(dob[0])
		ctrl.SetBirthMonth(dob[1])
		ctrl.SetBirthYear(dob[2])
		if err := ctrl.Validate(); err == nil {
			t.Fatalf("date %v accepted", dob)
		}
	}
}

func TestSubmitSyncsAndAdvances(t *testing.T) {
	store := newAuthedStore(t, nil)
	patcher := &fakePatcher{}
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(store, patcher, nil, WithClock(fixedClock(now)))
	ctrl.SetFirstName("Ada")
	ctrl.SetLastName("Lovelace")
	ctrl.SetMobileNumber("+44 700")
	ctrl.SetBirthDay("9")
	ctrl.SetBirthMonth("3")
	ctrl.SetBirthYear("1990")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	if patcher.calls != 1 || patcher.last.PersonalDetails == nil {
		t.Fatalf("patch = %+v", patcher.last)
	}
	if got := *patcher.last.PersonalDetails.DateOfBirth; got != "09-03-1990" {
		t.Fatalf("wire dob = %q", got)
	}
	state := store.State()
	if state.PersonalDetails.DateOfBirth != "09-03-1990" || !state.KYCProcess.PersonalSubmitted {
		t.Fatalf("state = %+v %+v", state.PersonalDetails, state.KYCProcess)
	}
	if state.CurrentStep != flow.StepAddress {
		t.Fatalf("current step = %s", state.CurrentStep)
	}
}

func TestSyncFailureStillAdvances(t *testing.T) {
	store := newAuthedStore(t, nil)
	patcher := &fakePatcher{err: fmt.Errorf("upstream 500")}
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ctrl := New(store, patcher, nil, WithClock(fixedClock(now)))
	ctrl.SetFirstName("Ada")
	ctrl.SetLastName("Lovelace")
	ctrl.SetMobileNumber("+44 700")
	ctrl.SetBirthDay("9")
	ctrl.SetBirthMonth("3")
	ctrl.SetBirthYear("1990")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("sync failures must not block the step, got %s", res.Status)
	}
	state := store.State()
	if state.KYCProcess.PersonalSubmitted {
		t.Fatalf("failed sync must not be marked synced")
	}
	if !state.PersonalDetails.Completed || state.CurrentStep != flow.StepAddress {
		t.Fatalf("state = %+v step=%s", state.PersonalDetails, state.CurrentStep)
	}
}
