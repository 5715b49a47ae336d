// internal/steps/kychandoff/controller.go
//
// Identity verification happens in the provider's hosted flow, outside the
// terminal. This step surfaces the verification URL captured during the
// purpose handshake, lets the user open it in a browser, and records a
// completion marker once they confirm they finished (or chose to skip).

package kychandoff

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

// Opener launches a URL in the user's browser. Replaceable for tests.
type Opener func(url string) error

// Controller drives the hosted-verification handoff.
type Controller struct {
	store *session.Store
	log   *logbook.Logbook
	open  Opener
	clock func() time.Time

	opened bool
}

// Option customizes controller construction.
type Option func(*Controller)

// WithOpener replaces the browser launcher.
func WithOpener(open Opener) Option {
	return func(c *Controller) {
		if open != nil {
			c.open = open
		}
	}
}

// WithClock pins the completion timestamp.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds the handoff controller.
func New(store *session.Store, log *logbook.Logbook, opts ...Option) *Controller {
	c := &Controller{store: store, log: log, open: openBrowser, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepKYCIframe,
		Name:        flow.StepKYCIframe.FriendlyName(),
		Description: "Hand off to the provider's hosted identity verification.",
	}
}

// URL returns the captured verification URL, empty when the handshake
// never produced one.
func (c *Controller) URL() string {
	return c.store.State().KYCProcess.KYCURL
}

// Ready reports whether a verification URL is available.
func (c *Controller) Ready() bool {
	return c.URL() != ""
}

// Open launches the verification URL in the user's browser.
func (c *Controller) Open() error {
	url := c.URL()
	if url == "" {
		return fmt.Errorf("kychandoff: no verification url available")
	}
	if err := c.open(url); err != nil {
		c.log.Warn("kychandoff: browser launch failed: %v", err)
		return fmt.Errorf("kychandoff: open browser: %w", err)
	}
	c.opened = true
	return nil
}

// Opened reports whether the URL was launched this session.
func (c *Controller) Opened() bool {
	return c.opened
}

// Validate requires a verification URL. A missing URL means the purpose
// handshake failed and the user has nothing to complete.
func (c *Controller) Validate() error {
	if !c.Ready() {
		return fmt.Errorf("verification is not ready yet; revisit the purpose step to retry")
	}
	return nil
}

// Submit records the completion marker and advances to the business form.
// The hosted flow reports its outcome out of band, so completion here is
// the user's own confirmation.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusBlocked, Message: err.Error()}, nil
	}
	return c.complete()
}

// Skip records the marker without a verification URL, for users whose
// provider flow is handled elsewhere.
func (c *Controller) Skip(ctx context.Context) (step.Result, error) {
	c.log.Info("kychandoff: verification skipped by user")
	return c.complete()
}

func (c *Controller) complete() (step.Result, error) {
	c.store.Dispatch(session.SetIDProof{Timestamp: c.clock().UTC().Format(time.RFC3339)})
	c.store.CompleteStep(flow.StepKYCIframe)
	if err := c.store.Advance(flow.StepKYBForm); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}

// openBrowser shells out to the platform launcher.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
