// internal/steps/purpose/controller.go
//
// The purpose step records why the user is buying crypto, then runs the
// KYC handshake pipeline: purpose submission, the requirements fetch, and
// the follow-up fetch that carries the provider's verification URL. Every
// pipeline stage is best effort; a failed stage is logged and skipped so
// the wizard never strands the user here.

package purpose

import (
	"context"
	"fmt"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

// Option is one selectable purpose of use.
type Option struct {
	ID    string
	Title string
}

// Options returns the fixed purpose catalogue in display order.
func Options() []Option {
	return []Option{
		{ID: "buying-nfts", Title: "Buying NFTs"},
		{ID: "buying-crypto-investments", Title: "Buying crypto for investments"},
		{ID: "web3-payments", Title: "Web3 and payments"},
	}
}

// Pipeline covers the three upstream calls the step drives. The gateway
// client satisfies it.
type Pipeline interface {
	SubmitPurpose(ctx context.Context, token string, purposes []string) error
	Requirements(ctx context.Context, token, quoteID string) (*gateway.Requirements, error)
	AdditionalRequirements(ctx context.Context, token, quoteID string) (*gateway.Requirements, error)
}

// Controller owns the purpose selection.
type Controller struct {
	store    *session.Store
	pipeline Pipeline
	log      *logbook.Logbook

	selected string
}

// New builds the purpose controller.
func New(store *session.Store, pipeline Pipeline, log *logbook.Logbook) *Controller {
	return &Controller{store: store, pipeline: pipeline, log: log}
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepPurpose,
		Name:        flow.StepPurpose.FriendlyName(),
		Description: "Record the purpose of use and fetch the KYC requirements.",
	}
}

// Select records a purpose by catalogue id. Unknown ids are rejected.
func (c *Controller) Select(id string) error {
	for _, opt := range Options() {
		if opt.ID == id {
			c.selected = id
			return nil
		}
	}
	return fmt.Errorf("purpose: unknown option %q", id)
}

// Selected returns the chosen catalogue entry.
func (c *Controller) Selected() (Option, bool) {
	for _, opt := range Options() {
		if opt.ID == c.selected {
			return opt, true
		}
	}
	return Option{}, false
}

// Validate requires a selection.
func (c *Controller) Validate() error {
	if _, ok := c.Selected(); !ok {
		return fmt.Errorf("select a purpose of use")
	}
	return nil
}

// Submit records the purpose, drives the handshake pipeline, and advances
// to the verification handoff.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	selected, ok := c.Selected()
	if !ok {
		return step.Result{Status: step.StatusNeedsInput, Message: "select a purpose of use"}, nil
	}
	token := c.store.AuthToken()

	if err := c.pipeline.SubmitPurpose(ctx, token, []string{selected.Title}); err != nil {
		c.log.Warn("purpose: submission failed: %v", err)
	} else {
		c.store.Dispatch(session.MarkPurposeSynced{})
	}
	c.store.Dispatch(session.SetPurpose{ID: selected.ID, Title: selected.Title})

	c.fetchRequirements(ctx, token)

	c.store.CompleteStep(flow.StepPurpose)
	if err := c.store.Advance(flow.StepKYCIframe); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}

// fetchRequirements runs the two requirement calls for the current quote.
// Without a quote id there is nothing to key the cache on, so both calls
// are skipped. Each cache fills at most once per quote id: a revisit that
// resubmits the same quote must not refetch, while a new quote id clears
// the fetched flags through the reducer and fetches again.
func (c *Controller) fetchRequirements(ctx context.Context, token string) {
	state := c.store.State()
	if state.Quote.Result == nil || state.Quote.Result.QuoteID == "" {
		c.log.Warn("purpose: no quote id, skipping requirements fetch")
		return
	}
	quoteID := state.Quote.Result.QuoteID
	cached := state.KYCProcess.QuoteID == quoteID

	if cached && state.KYCProcess.RequirementsFetched {
		c.log.Debug("purpose: requirements already fetched for %s", quoteID)
	} else if reqs, err := c.pipeline.Requirements(ctx, token, quoteID); err != nil {
		c.log.Warn("purpose: requirements fetch failed: %v", err)
	} else {
		c.store.Dispatch(session.SetRequirements{QuoteID: quoteID, Requirements: reqs})
	}

	if cached && state.KYCProcess.AdditionalFetched {
		c.log.Debug("purpose: additional requirements already fetched for %s", quoteID)
		return
	}
	additional, err := c.pipeline.AdditionalRequirements(ctx, token, quoteID)
	if err != nil {
		c.log.Warn("purpose: additional requirements fetch failed: %v", err)
		return
	}
	c.store.Dispatch(session.SetAdditionalRequirements{QuoteID: quoteID, Requirements: additional})
}
