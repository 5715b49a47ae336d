package purpose

import (
	"context"
	"fmt"
	"testing"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/session"
)

type fakePipeline struct {
	submitErr     error
	reqErr        error
	additionalErr error

	submitted  []string
	reqCalls   int
	additional int
}

func (f *fakePipeline) SubmitPurpose(ctx context.Context, token string, purposes []string) error {
	f.submitted = purposes
	return f.submitErr
}

func (f *fakePipeline) Requirements(ctx context.Context, token, quoteID string) (*gateway.Requirements, error) {
	f.reqCalls++
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return &gateway.Requirements{}, nil
}

func (f *fakePipeline) AdditionalRequirements(ctx context.Context, token, quoteID string) (*gateway.Requirements, error) {
	f.additional++
	if f.additionalErr != nil {
		return nil, f.additionalErr
	}
	return &gateway.Requirements{
		FormsRequired: []gateway.RequiredForm{{Type: "idProof", Metadata: gateway.FormMetadata{KYCURL: "https://kyc.example/session/1"}}},
	}, nil
}

func newStoreAtPurpose(t *testing.T, withQuote bool) *session.Store {
	t.Helper()
	store := session.NewStore()
	for _, s := range []flow.Step{flow.StepQuote, flow.StepWallet, flow.StepEmail, flow.StepOTP, flow.StepPersonalDetails, flow.StepAddress} {
		store.CompleteStep(s)
	}
	store.Dispatch(session.SetAuthToken{Token: "tok"})
	if withQuote {
		store.Dispatch(session.QuoteResolved{Result: &gateway.Quote{QuoteID: "q-77"}})
	}
	if err := store.Navigate(flow.StepPurpose); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	return store
}

func TestUnknownOptionRejected(t *testing.T) {
	store := newStoreAtPurpose(t, true)
	ctrl := New(store, &fakePipeline{}, nil)
	if err := ctrl.Select("day-trading"); err == nil {
		t.Fatalf("unknown purpose accepted")
	}
	if err := ctrl.Validate(); err == nil {
		t.Fatalf("empty selection accepted")
	}
}

func TestSubmitRunsFullPipeline(t *testing.T) {
	store := newStoreAtPurpose(t, true)
	pipeline := &fakePipeline{}
	ctrl := New(store, pipeline, nil)
	if err := ctrl.Select("buying-nfts"); err != nil {
		t.Fatalf("select: %v", err)
	}

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	if len(pipeline.submitted) != 1 || pipeline.submitted[0] != "Buying NFTs" {
		t.Fatalf("submitted titles = %v", pipeline.submitted)
	}
	state := store.State()
	if state.Purpose.ID != "buying-nfts" || !state.KYCProcess.PurposeSubmitted {
		t.Fatalf("state = %+v %+v", state.Purpose, state.KYCProcess)
	}
	if state.KYCProcess.QuoteID != "q-77" || !state.KYCProcess.RequirementsFetched || !state.KYCProcess.AdditionalFetched {
		t.Fatalf("handshake state = %+v", state.KYCProcess)
	}
	if state.KYCProcess.KYCURL != "https://kyc.example/session/1" {
		t.Fatalf("kyc url = %q", state.KYCProcess.KYCURL)
	}
	if state.CurrentStep != flow.StepKYCIframe {
		t.Fatalf("current step = %s", state.CurrentStep)
	}
}

func TestEachPipelineStageIsBestEffort(t *testing.T) {
	cases := []struct {
		name     string
		pipeline *fakePipeline
	}{
		{"submit fails", &fakePipeline{submitErr: fmt.Errorf("503")}},
		{"requirements fail", &fakePipeline{reqErr: fmt.Errorf("503")}},
		{"additional fails", &fakePipeline{additionalErr: fmt.Errorf("503")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStoreAtPurpose(t, true)
			ctrl := New(store, tc.pipeline, nil)
			if err := ctrl.Select("web3-payments"); err != nil {
				t.Fatalf("select: %v", err)
			}
			res, err := ctrl.Submit(context.Background())
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if res.Status != "completed" {
				t.Fatalf("pipeline failure blocked the step: %s", res.Status)
			}
			state := store.State()
			if !state.Purpose.Completed || state.CurrentStep != flow.StepKYCIframe {
				t.Fatalf("state = %+v step=%s", state.Purpose, state.CurrentStep)
			}
		})
	}
}

func TestResubmitSameQuoteFetchesOnce(t *testing.T) {
	store := newStoreAtPurpose(t, true)
	pipeline := &fakePipeline{}
	ctrl := New(store, pipeline, nil)
	if err := ctrl.Select("buying-nfts"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Revisit and resubmit with the quote unchanged.
	if err := store.Navigate(flow.StepPurpose); err != nil {
		t.Fatalf("navigate back: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if pipeline.reqCalls != 1 || pipeline.additional != 1 {
		t.Fatalf("requirement fetches for one quote id: %d/%d, want 1/1", pipeline.reqCalls, pipeline.additional)
	}

	// A new quote id invalidates both caches and fetches again.
	store.Dispatch(session.QuoteResolved{Result: &gateway.Quote{QuoteID: "q-78"}})
	if err := store.Navigate(flow.StepPurpose); err != nil {
		t.Fatalf("navigate back: %v", err)
	}
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("third Submit: %v", err)
	}
	if pipeline.reqCalls != 2 || pipeline.additional != 2 {
		t.Fatalf("requirement fetches after a new quote id: %d/%d, want 2/2", pipeline.reqCalls, pipeline.additional)
	}
	if got := store.State().KYCProcess.QuoteID; got != "q-78" {
		t.Fatalf("cache keyed to %q, want q-78", got)
	}
}

func TestNoQuoteSkipsRequirements(t *testing.T) {
	store := newStoreAtPurpose(t, false)
	pipeline := &fakePipeline{}
	ctrl := New(store, pipeline, nil)
	if err := ctrl.Select("buying-crypto-investments"); err != nil {
		t.Fatalf("select: %v", err)
	}

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	if pipeline.reqCalls != 0 || pipeline.additional != 0 {
		t.Fatalf("requirement calls without a quote id: %d/%d", pipeline.reqCalls, pipeline.additional)
	}
}
