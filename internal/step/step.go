// internal/step/step.go
//
// Contracts shared by every step controller. A controller owns its local
// draft state, validates it, and on submit performs its API calls, writes
// the result into the session store, and advances the sequencer.

package step

import (
	"context"

	"github.com/kingrea/onramp/internal/flow"
)

// Info describes a controller's identity.
type Info struct {
	ID          flow.Step
	Name        string
	Description string
}

// Status enumerates submit outcomes.
type Status string

const (
	// StatusCompleted means the step finished and the wizard advanced.
	StatusCompleted Status = "completed"
	// StatusBlocked means validation or a fatal call failed; the user must
	// correct input or retry.
	StatusBlocked Status = "blocked"
	// StatusNeedsInput means the controller is waiting for more local input.
	StatusNeedsInput Status = "needs-input"
	// StatusFailed means an unexpected error ended the submit.
	StatusFailed Status = "failed"
)

// Result captures the outcome of a controller submit.
type Result struct {
	Status  Status
	Message string
}

// TokenSink receives freshly issued auth tokens. The session guard
// implements it.
type TokenSink interface {
	SetToken(token string)
}

// Controller is implemented by every wizard step.
type Controller interface {
	Info() Info
	Validate() error
	Submit(ctx context.Context) (Result, error)
}
