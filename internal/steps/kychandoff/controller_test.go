package kychandoff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/session"
)

func newStoreAtHandoff(t *testing.T, kycURL string) *session.Store {
	t.Helper()
	store := session.NewStore()
	for _, s := range []flow.Step{flow.StepQuote, flow.StepWallet, flow.StepEmail, flow.StepOTP, flow.StepPersonalDetails, flow.StepAddress, flow.StepPurpose} {
		store.CompleteStep(s)
	}
	store.Dispatch(session.SetAuthToken{Token: "tok"})
	if kycURL != "" {
		store.Dispatch(session.SetAdditionalRequirements{
			QuoteID: "q-1",
			Requirements: &gateway.Requirements{
				FormsRequired: []gateway.RequiredForm{{Type: "idProof", Metadata: gateway.FormMetadata{KYCURL: kycURL}}},
			},
		})
	}
	if err := store.Navigate(flow.StepKYCIframe); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	return store
}

func TestMissingURLBlocksSubmit(t *testing.T) {
	store := newStoreAtHandoff(t, "")
	ctrl := New(store, nil)

	if ctrl.Ready() {
		t.Fatalf("ready without a verification url")
	}
	if err := ctrl.Open(); err == nil {
		t.Fatalf("open without a url must fail")
	}
	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "blocked" {
		t.Fatalf("status = %s", res.Status)
	}
	if store.State().CurrentStep != flow.StepKYCIframe {
		t.Fatalf("step advanced without a url")
	}
}

func TestOpenLaunchesCapturedURL(t *testing.T) {
	store := newStoreAtHandoff(t, "https://kyc.example/session/9")
	var launched string
	ctrl := New(store, nil, WithOpener(func(url string) error {
		launched = url
		return nil
	}))

	if err := ctrl.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if launched != "https://kyc.example/session/9" {
		t.Fatalf("launched %q", launched)
	}
	if !ctrl.Opened() {
		t.Fatalf("opened flag not set")
	}
}

func TestLaunchFailureIsSurfaced(t *testing.T) {
	store := newStoreAtHandoff(t, "https://kyc.example/session/9")
	ctrl := New(store, nil, WithOpener(func(string) error {
		return fmt.Errorf("no display")
	}))

	if err := ctrl.Open(); err == nil {
		t.Fatalf("launch failure swallowed")
	}
	if ctrl.Opened() {
		t.Fatalf("opened flag set despite failure")
	}
}

func TestSubmitStampsMarkerAndAdvances(t *testing.T) {
	store := newStoreAtHandoff(t, "https://kyc.example/session/9")
	now := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)
	ctrl := New(store, nil, WithClock(func() time.Time { return now }))

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	state := store.State()
	if !state.IDProof.VerificationComplete || state.IDProof.Timestamp != "2026-04-02T15:00:00Z" {
		t.Fatalf("marker = %+v", state.IDProof)
	}
	if state.CurrentStep != flow.StepKYBForm {
		t.Fatalf("current step = %s", state.CurrentStep)
	}
}

func TestSkipCompletesWithoutURL(t *testing.T) {
	store := newStoreAtHandoff(t, "")
	ctrl := New(store, nil)

	res, err := ctrl.Skip(context.Background())
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	if store.State().CurrentStep != flow.StepKYBForm {
		t.Fatalf("skip must still advance")
	}
}
