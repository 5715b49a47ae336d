// internal/steps/otp/controller.go
//
// The OTP step collects the six-digit emailed code. Auto-submit fires
// exactly once when the sixth digit lands and terms are accepted; a failed
// verification clears every digit and refocuses the first slot. Resend is
// gated by a 60-second cooldown and replaces the stored state token.

package otp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/gateway"
	"github.com/kingrea/onramp/internal/logbook"
	"github.com/kingrea/onramp/internal/session"
	"github.com/kingrea/onramp/internal/step"
)

const (
	codeLength     = 6
	resendCooldown = 60 * time.Second
)

// Verifier exchanges the code for an access token. The gateway client
// satisfies it.
type Verifier interface {
	VerifyOTP(ctx context.Context, req gateway.VerifyRequest) (string, error)
}

// Resender re-triggers the OTP email. The gateway client satisfies it.
type Resender interface {
	Login(ctx context.Context, email string) (*gateway.LoginResult, error)
}

// ProfileFetcher loads the user record once authenticated. Optional.
type ProfileFetcher interface {
	UserProfile(ctx context.Context, token string) (map[string]any, error)
}

// Controller owns the digit slots and the terms checkbox.
type Controller struct {
	store   *session.Store
	verify  Verifier
	resend  Resender
	profile ProfileFetcher
	guard   step.TokenSink
	log     *logbook.Logbook
	clock   func() time.Time

	digits     [codeLength]byte
	filled     [codeLength]bool
	focus      int
	terms      bool
	fired      bool
	nextResend time.Time
}

// Option customizes controller construction.
type Option func(*Controller)

// WithClock lets tests control the resend cooldown.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithProfileFetcher enables the best-effort profile load after verify.
func WithProfileFetcher(p ProfileFetcher) Option {
	return func(c *Controller) { c.profile = p }
}

// WithLogbook routes swallowed failures to the logbook.
func WithLogbook(l *logbook.Logbook) Option {
	return func(c *Controller) { c.log = l }
}

// New builds the OTP controller.
func New(store *session.Store, verify Verifier, resend Resender, guard step.TokenSink, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		verify: verify,
		resend: resend,
		guard:  guard,
		clock:  time.Now,
	}
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
		ID:          flow.StepOTP,
		Name:        flow.StepOTP.FriendlyName(),
		Description: "Verify the six-digit emailed code and establish the auth session.",
	}
}

// AcceptTerms toggles the terms checkbox. Auto-submit stays quiet until it
// is checked.
func (c *Controller) AcceptTerms(accepted bool) {
	c.terms = accepted
}

// TermsAccepted reports the checkbox state.
func (c *Controller) TermsAccepted() bool {
	return c.terms
}

// Focus returns the active digit slot.
func (c *Controller) Focus() int {
	return c.focus
}

// EnterDigit records one digit at the focused slot and reports whether the
// controller should auto-submit now.
func (c *Controller) EnterDigit(r rune) bool {
	if !unicode.IsDigit(r) {
		return false
	}
	c.digits[c.focus] = byte(r)
	c.filled[c.focus] = true
	if c.focus < codeLength-1 {
		c.focus++
	}
	return c.armAutoSubmit()
}

// Backspace clears the focused slot, or steps back onto the previous one.
func (c *Controller) Backspace() {
	if !c.filled[c.focus] && c.focus > 0 {
		c.focus--
	}
	c.digits[c.focus] = 0
	c.filled[c.focus] = false
	c.fired = false
}

// Paste fills all six slots from a pasted code and reports whether the
// controller should auto-submit now.
func (c *Controller) Paste(raw string) bool {
	code := strings.TrimSpace(raw)
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	for i := 0; i < codeLength; i++ {
		c.digits[i] = code[i]
		c.filled[i] = true
	}
	c.focus = codeLength - 1
	return c.armAutoSubmit()
}

// armAutoSubmit returns true at most once per complete fill, and only with
// terms accepted.
func (c *Controller) armAutoSubmit() bool {
	if !c.Complete() || !c.terms || c.fired {
		return false
	}
	c.fired = true
	return true
}

// Complete reports whether all six slots hold a digit.
func (c *Controller) Complete() bool {
	for _, ok := range c.filled {
		if !ok {
			return false
		}
	}
	return true
}

// Code returns the entered code.
func (c *Controller) Code() string {
	var b strings.Builder
	for i, ok := range c.filled {
		if ok {
			b.WriteByte(c.digits[i])
		}
	}
	return b.String()
}

// Digits returns the slot contents for rendering; empty slots are spaces.
func (c *Controller) Digits() [codeLength]string {
	var out [codeLength]string
	for i := range c.digits {
		if c.filled[i] {
			out[i] = string(c.digits[i])
		}
	}
	return out
}

func (c *Controller) clearDigits() {
	c.digits = [codeLength]byte{}
	c.filled = [codeLength]bool{}
	c.focus = 0
	c.fired = false
}

// Validate requires a full code and accepted terms.
func (c *Controller) Validate() error {
	if !c.Complete() {
		return fmt.Errorf("enter the six-digit code")
	}
	if !c.terms {
		return fmt.Errorf("accept the terms of service to continue")
	}
	return nil
}

// Submit verifies the code. Success installs the token through the guard
// and advances; failure clears the digits and refocuses the first slot.
func (c *Controller) Submit(ctx context.Context) (step.Result, error) {
	if err := c.Validate(); err != nil {
		return step.Result{Status: step.StatusNeedsInput, Message: err.Error()}, nil
	}
	state := c.store.State()
	req := gateway.VerifyRequest{
		Email:      state.Email.Email,
		OTP:        c.Code(),
		StateToken: state.Email.StateToken,
	}

	token, err := c.verify.VerifyOTP(ctx, req)
	if err != nil || token == "" {
		if err != nil {
			c.log.Warn("otp: verification failed: %v", err)
		}
		c.store.Dispatch(session.IncrementOTPAttempts{})
		c.clearDigits()
		return step.Result{Status: step.StatusBlocked, Message: "Invalid code. Please try again."}, nil
	}

	c.guard.SetToken(token)
	c.store.Dispatch(session.MarkEmailVerified{})
	c.loadProfile(ctx, token)
	c.store.CompleteStep(flow.StepOTP)
	if err := c.store.Advance(flow.StepPersonalDetails); err != nil {
		return step.Result{Status: step.StatusFailed}, err
	}
	return step.Result{Status: step.StatusCompleted}, nil
}

// loadProfile fetches the user record for later prefill. Best effort: a
// failure is logged and the flow proceeds.
func (c *Controller) loadProfile(ctx context.Context, token string) {
	if c.profile == nil {
		return
	}
	profile, err := c.profile.UserProfile(ctx, token)
	if err != nil {
		c.log.Warn("otp: profile fetch failed: %v", err)
		return
	}
	c.store.Dispatch(session.SetUserDetails{Profile: profile})
}

// CanResend reports whether the cooldown has elapsed.
func (c *Controller) CanResend() bool {
	return !c.clock().Before(c.nextResend)
}

// ResendWait returns the time remaining on the cooldown.
func (c *Controller) ResendWait() time.Duration {
	remaining := c.nextResend.Sub(c.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Resend re-sends the code and replaces the stored state token.
func (c *Controller) Resend(ctx context.Context) error {
	if !c.CanResend() {
		return fmt.Errorf("otp: resend available in %s", c.ResendWait().Round(time.Second))
	}
	state := c.store.State()
	result, err := c.resend.Login(ctx, state.Email.Email)
	if err != nil {
		return fmt.Errorf("otp: resend: %w", err)
	}
	c.store.Dispatch(session.SetEmail{Email: state.Email.Email, StateToken: result.StateToken, ExpiresIn: result.ExpiresIn})
	c.nextResend = c.clock().Add(resendCooldown)
	c.clearDigits()
	return nil
}
