// internal/steps/email/controller.go
//
// The email step validates the address shape locally, then asks the auth
// endpoint to send the one-time code. The returned state token gates the
// OTP step.

package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sender triggers the OTP email. The gateway client satisfies it.
type Sender interface {
	Login(ctx context.Context, email string) (*gateway.LoginResult, error)
}

// Controller owns the email draft.
type Controller struct {
	store *session.Store
	send  Sender
	log   *logbook.Logbook

	email string
}

// New builds the email controller.
func New(store *session.Store, send Sender, log *logbook.Logbook) *Controller {
	return &Controller{store: store, send: send, log: log}
}

var _ step.Controller = (*Controller)(nil)

// Info identifies the controller.
func (c *Controller) Info() step.Info {
	return step.Info{
		ID:          flow.StepEmail,
		Name:        flow.StepEmail.FriendlyName(),
		Description: "Collect the login email and send the one-time code.",
	}
}

// SetEmail records the draft.
func (c *Controller) SetEmail(email string) {
	c.email = email
}

// Email returns the current draft.
func (c *Controller) Email() string {
	return c.email
}

// Validate checks the address shape without touching the network.
func (c *Controller) Validate() error {
	trimmed := strings.TrimSpace(c.email)
	if trimmed == "" {
		return fmt.Errorf("enter your email address")
	}
	if !emailPattern.MatchString(trimmed) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

// Submit sends the OTP and advances to the verification step.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusBlocked, Message: err.Error()}, nil
	}
	address := strings.TrimSpace(c.email)

	result, err := c.send.Login(ctx, address)
	if err != nil {
		c.log.Warn("email: otp send failed: %v", err)
		return step.Result{Status: step.StatusBlocked, Message: "Failed to send the code. Please try again."}, nil
	}

	c.store.Dispatch(session.SetEmail{Email: address, StateToken: result.StateToken, ExpiresIn: result.ExpiresIn})
	c.store.CompleteStep(flow.StepEmail)
	if err := c.store.Advance(flow.StepOTP); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}
