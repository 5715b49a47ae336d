package email

import (
	"context"
	"fmt"
	"testing"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/session"
)

type fakeSender struct {
	result *gateway.LoginResult
	err    error
	calls  int
}

func (f *fakeSender) Login(ctx context.Context, email string) (*gateway.LoginResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newStoreAtEmail(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore()
	store.CompleteStep(flow.StepQuote)
	store.CompleteStep(flow.StepWallet)
	if err := store.Advance(flow.StepWallet); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := store.Advance(flow.StepEmail); err != nil {
		t.Fatalf("advance: %v", err)
	}
	return store
}

func TestRejectsMalformedEmails(t *testing.T) {
	store := newStoreAtEmail(t)
	sender := &fakeSender{}
	ctrl := New(store, sender, nil)

	for _, bad := range []string{"", "plain", "a@b", "a b@c.com", "@c.com"} {
		ctrl.SetEmail(bad)
		res, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit(%q): %v", bad, err)
		}
		if res.Status != "blocked" {
			t.Fatalf("email %q accepted", bad)
		}
	}
	if sender.calls != 0 {
		t.Fatalf("malformed emails must never reach the network")
	}
}

func TestSendFailureBlocks(t *testing.T) {
	store := newStoreAtEmail(t)
	ctrl := New(store, &fakeSender{err: fmt.Errorf("rate limited")}, nil)
	ctrl.SetEmail("user@example.com")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "blocked" {
		t.Fatalf("status = %s", res.Status)
	}
	if store.State().CurrentStep != flow.StepEmail {
		t.Fatalf("step advanced despite send failure")
	}
}

func TestSuccessStoresStateToken(t *testing.T) {
	store := newStoreAtEmail(t)
	sender := &fakeSender{result: &gateway.LoginResult{StateToken: "st-9", ExpiresIn: 300}}
	ctrl := New(store, sender, nil)
	ctrl.SetEmail("  user@example.com  ")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	state := store.State()
	if state.Email.Email != "user@example.com" || state.Email.StateToken != "st-9" || state.Email.ExpiresIn != 300 {
		t.Fatalf("email slice = %+v", state.Email)
	}
	if state.CurrentStep != flow.StepOTP {
		t.Fatalf("current step = %s", state.CurrentStep)
	}
}
