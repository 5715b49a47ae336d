package wallet

import (
	"context"
	"fmt"
	"testing"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/session"
)

type fakeVerifier struct {
	err   error
	calls int
	last  [3]string
}

func (f *fakeVerifier) VerifyWalletAddress(ctx context.Context, crypto, network, address string) error {
	f.calls++
	f.last = [3]string{crypto, network, address}
	return f.err
}

func newStoreAtWallet(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore()
	store.Dispatch(session.SetQuoteParams{FiatAmount: 100, FiatCurrency: "EUR", CryptoCurrency: "ETH", Network: "ethereum", PaymentMethod: "credit_debit_card"})
	store.CompleteStep(flow.StepQuote)
	if err := store.Advance(flow.StepWallet); err != nil {
		t.Fatalf("advance to wallet: %v", err)
	}
	return store
}

func TestEmptyAddressBlocked(t *testing.T) {
	store := newStoreAtWallet(t)
	verifier := &fakeVerifier{}
	ctrl := New(store, verifier, nil)
	ctrl.SetAddress("   ")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "blocked" {
		t.Fatalf("status = %s", res.Status)
	}
	if verifier.calls != 0 {
		t.Fatalf("validation errors must never reach the network")
	}
}

func TestVerificationFailsClosed(t *testing.T) {
	store := newStoreAtWallet(t)
	verifier := &fakeVerifier{err: fmt.Errorf("gateway timeout")}
	ctrl := New(store, verifier, nil)
	ctrl.SetAddress("0xabc")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "blocked" {
		t.Fatalf("endpoint errors must count as invalid, got %s", res.Status)
	}
	state := store.State()
	if state.Wallet.Valid || state.Wallet.Address != "" {
		t.Fatalf("failed verification must not touch the wallet slice: %+v", state.Wallet)
	}
	if state.CurrentStep != flow.StepWallet {
		t.Fatalf("step advanced despite failure")
	}
}

func TestVerifiedAddressAdvances(t *testing.T) {
	store := newStoreAtWallet(t)
	verifier := &fakeVerifier{}
	ctrl := New(store, verifier, nil)
	ctrl.SetAddress("  0xabc123  ")

	res, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != "completed" {
		t.Fatalf("status = %s", res.Status)
	}
	if verifier.last != [3]string{"ETH", "ethereum", "0xabc123"} {
		t.Fatalf("verify called with %v", verifier.last)
	}
	state := store.State()
	if !state.Wallet.Valid || state.Wallet.Address != "0xabc123" {
		t.Fatalf("wallet slice = %+v", state.Wallet)
	}
	if state.CurrentStep != flow.StepEmail {
		t.Fatalf("current step = %s", state.CurrentStep)
	}
}
