// internal/steps/wallet/controller.go
//
// The wallet step verifies the destination address against the coverage
// endpoint. Verification fails closed: any endpoint error counts as an
// invalid address, never as a pass.

package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

// Verifier checks an address for a crypto/network pair. The gateway client
// satisfies it.
type Verifier interface {
	VerifyWalletAddress(ctx context.Context, cryptoCurrency, network, address string) error
}

// Controller owns the address draft.
type Controller struct {
	store  *session.Store
	verify Verifier
	log    *logbook.Logbook

	address string
}

// New builds the wallet controller.
func New(store *session.Store, verify Verifier, log *logbook.Logbook) *Controller {
	return &Controller{store: store, verify: verify, log: log}
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepWallet,
		Name:        flow.StepWallet.FriendlyName(),
		Description: "Verify the destination wallet address for the selected crypto and network.",
	}
}

// SetAddress records the address draft.
func (c *Controller) SetAddress(address string) {
	c.address = address
}

// Address returns the current draft.
func (c *Controller) Address() string {
	return c.address
}

// Validate requires a non-empty address.
func (c *Controller) Validate() error {
	if strings.TrimSpace(c.address) == "" {
		return fmt.Errorf("enter a wallet address")
	}
	return nil
}

// Submit verifies the address and advances on success.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusBlocked, Message: err.Error()}, nil
	}
	address := strings.TrimSpace(c.address)
	state := c.store.State()

	if err := c.verify.VerifyWalletAddress(ctx, state.Quote.CryptoCurrency, state.Quote.Network, address); err != nil {
		c.log.Warn("wallet: verification failed for %s/%s: %v", state.Quote.CryptoCurrency, state.Quote.Network, err)
		return step.Result{Status: step.StatusBlocked, Message: "Invalid wallet address for the selected network."}, nil
	}

	c.store.Dispatch(session.SetWallet{
		Address:          address,
		ValidationResult: fmt.Sprintf("verified for %s on %s", state.Quote.CryptoCurrency, state.Quote.Network),
	})
	c.store.CompleteStep(flow.StepWallet)
	if err := c.store.Advance(flow.StepEmail); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}
