package session

import (
	"reflect"
	"testing"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
)

func TestReduceIsDeterministic(t *testing.T) {
	base := NewState()
	action := SetPersonalDetails{FirstName: "Ada", LastName: "Lovelace", DateOfBirth: "10-12-1990", MobileNumber: "+4470000"}
	first := reduce(base, action)
	second := reduce(base, action)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reduce not deterministic:\n%+v\n%+v", first, second)
	}
	if !first.PersonalDetails.Completed {
		t.Fatalf("data-entry action must mark its slice completed")
	}
}

func TestCompletedStepsMonotonicAndUnique(t *testing.T) {
	store := NewStore()
	store.CompleteStep(flow.StepQuote)
	store.CompleteStep(flow.StepWallet)
	store.CompleteStep(flow.StepQuote)
	store.CompleteStep(flow.StepWallet)

	state := store.State()
	want := []flow.Step{flow.StepQuote, flow.StepWallet}
	if !reflect.DeepEqual(state.Progress.CompletedSteps, want) {
		t.Fatalf("completed steps = %v, want %v", state.Progress.CompletedSteps, want)
	}

	// No action shrinks the set.
	store.Dispatch(ClearAuthToken{})
	store.Dispatch(QuoteFailed{Message: "x"})
	if got := len(store.State().Progress.CompletedSteps); got != 2 {
		t.Fatalf("completed steps shrank to %d entries", got)
	}
}

func TestNavigateRequiresPriorCompletion(t *testing.T) {
	store := NewStore()
	store.Dispatch(SetAuthToken{Token: "tok"})
	for _, s := range []flow.Step{flow.StepQuote, flow.StepWallet, flow.StepEmail, flow.StepOTP, flow.StepPersonalDetails} {
		store.CompleteStep(s)
	}

	if err := store.Navigate(flow.StepPurpose); err == nil {
		t.Fatalf("purpose must be rejected while address is incomplete")
	}
	store.CompleteStep(flow.StepAddress)
	if err := store.Navigate(flow.StepPurpose); err != nil {
		t.Fatalf("Navigate(purpose): %v", err)
	}
	if store.State().CurrentStep != flow.StepPurpose {
		t.Fatalf("current step = %s", store.State().CurrentStep)
	}
}

func TestLogoutGatesNavigation(t *testing.T) {
	store := NewStore()
	store.Dispatch(SetAuthToken{Token: "tok"})
	for _, s := range flow.Steps() {
		store.CompleteStep(s)
	}
	if !store.CanNavigate(flow.StepPurpose) {
		t.Fatalf("purpose should be reachable while authenticated")
	}

	store.Logout()
	if store.CanNavigate(flow.StepOTP) {
		t.Fatalf("steps beyond email must be unreachable after logout")
	}
	if !store.CanNavigate(flow.StepEmail) {
		t.Fatalf("email must stay reachable after logout")
	}
	if err := store.Advance(flow.StepPersonalDetails); err == nil {
		t.Fatalf("authenticated advance must fail without a token")
	}
}

func TestAdvanceRejectsForwardJumps(t *testing.T) {
	store := NewStore()
	if err := store.Advance(flow.StepEmail); err == nil {
		t.Fatalf("expected rejection of quote -> email jump")
	}
	if err := store.Advance(flow.StepWallet); err != nil {
		t.Fatalf("Advance(wallet): %v", err)
	}
	if store.State().CurrentStep != flow.StepWallet {
		t.Fatalf("current step = %s", store.State().CurrentStep)
	}
}

func TestQuoteParamChangeClearsResult(t *testing.T) {
	store := NewStore()
	store.Dispatch(QuoteResolved{Result: &gateway.Quote{QuoteID: "q-1"}})
	if store.State().Quote.Result == nil {
		t.Fatalf("quote result not stored")
	}
	store.Dispatch(SetQuoteParams{FiatAmount: 200, FiatCurrency: "EUR", CryptoCurrency: "ETH", PaymentMethod: "credit_debit_card"})
	state := store.State()
	if state.Quote.Result != nil {
		t.Fatalf("quote result must be cleared when parameters change")
	}
	if state.Quote.Err != "" || state.Quote.Loading {
		t.Fatalf("transient quote fields must reset with new parameters")
	}
}

func TestRequirementsInvalidatedPerQuote(t *testing.T) {
	store := NewStore()
	reqs := &gateway.Requirements{FormsRequired: []gateway.RequiredForm{{Type: "IDPROOF", Metadata: gateway.FormMetadata{KYCURL: "https://kyc/1"}}}}
	store.Dispatch(SetRequirements{QuoteID: "q-1", Requirements: &gateway.Requirements{}})
	store.Dispatch(SetAdditionalRequirements{QuoteID: "q-1", Requirements: reqs})

	state := store.State()
	if !state.KYCProcess.RequirementsFetched || !state.KYCProcess.AdditionalFetched {
		t.Fatalf("fetched flags not set: %+v", state.KYCProcess)
	}
	if state.KYCProcess.KYCURL != "https://kyc/1" {
		t.Fatalf("kyc url = %q", state.KYCProcess.KYCURL)
	}

	// A new quote id drops both caches before the new payload lands.
	store.Dispatch(SetRequirements{QuoteID: "q-2", Requirements: &gateway.Requirements{}})
	state = store.State()
	if state.KYCProcess.AdditionalFetched || state.KYCProcess.KYCURL != "" {
		t.Fatalf("additional requirements must be invalidated by a new quote id: %+v", state.KYCProcess)
	}
	if !state.KYCProcess.RequirementsFetched || state.KYCProcess.QuoteID != "q-2" {
		t.Fatalf("new requirements not applied: %+v", state.KYCProcess)
	}
}

func TestAuthTokenVerifiedInvariant(t *testing.T) {
	store := NewStore()
	store.Dispatch(SetAuthToken{Token: "tok"})
	state := store.State()
	if !state.OTP.Verified || state.OTP.AuthToken != "tok" {
		t.Fatalf("token set must imply verified: %+v", state.OTP)
	}
	store.Logout()
	state = store.State()
	if state.OTP.Verified || state.OTP.AuthToken != "" {
		t.Fatalf("logout must clear token and verified together: %+v", state.OTP)
	}
}
