// internal/session/store.go
//
// The store serializes all state mutation behind one mutex: one action is
// fully applied before the next reader sees state. After every dispatch a
// sanitized snapshot is written out, best effort.

package session

import (
	"fmt"
	"sync"

	"github.com/kingrea/onramp/internal/flow"
	"github.com/kingrea/onramp/internal/logbook"
)

// Store owns the wizard state.
type Store struct {
	mu    sync.Mutex
	state State
	snap  *Snapshotter
	log   *logbook.Logbook
}

// StoreOption customizes store construction.
type StoreOption func(*Store)

// WithSnapshotter enables snapshot persistence after every dispatch.
func WithSnapshotter(s *Snapshotter) StoreOption {
	return func(st *Store) { st.snap = s }
}

// WithLogbook routes best-effort failures to the logbook.
func WithLogbook(l *logbook.Logbook) StoreOption {
	return func(st *Store) { st.log = l }
}

// NewStore returns a store holding the initial state.
func NewStore(opts ...StoreOption) *Store {
	st := &Store{state: NewState()}
	for _, opt := range opts {
		if opt != nil {
			opt(st)
		}
	}
	return st
}

// State returns an immutable snapshot of the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Dispatch applies one action and returns the resulting state. The snapshot
// write is fire-and-forget: failures are logged, never returned.
func (st *Store) Dispatch(action Action) State {
	st.mu.Lock()
	st.state = reduce(st.state, action)
	out := st.state.clone()
	st.mu.Unlock()

	if st.snap != nil {
		if err := st.snap.Save(out); err != nil {
			st.log.Warn("session: snapshot write failed after %s: %v", action.name(), err)
		}
	}
	return out
}

// Restore merges a previously persisted snapshot into the store. Transient
// fields and the auth token arrive already cleared by the snapshotter.
func (st *Store) Restore() error {
	if st.snap == nil {
		return nil
	}
	loaded, ok, err := st.snap.Load()
	if err != nil {
		return fmt.Errorf("session: restore snapshot: %w", err)
	}
	if !ok {
		return nil
	}
	st.mu.Lock()
	st.state = loaded
	st.mu.Unlock()
	return nil
}

// AuthToken returns the current access token, empty when logged out.
func (st *Store) AuthToken() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.OTP.AuthToken
}

// CompleteStep records a step's success. Steps are added exactly once.
func (st *Store) CompleteStep(step flow.Step) {
	st.Dispatch(CompleteStep{Step: step})
}

// Advance moves to the next step sequentially. The transition must be legal
// and authenticated steps require a live token.
func (st *Store) Advance(to flow.Step) error {
	st.mu.Lock()
	from := st.state.CurrentStep
	token := st.state.OTP.AuthToken
	st.mu.Unlock()

	if err := flow.Advance(from, to); err != nil {
		return err
	}
	if to > flow.StepOTP && token == "" {
		return fmt.Errorf("session: %s requires an authenticated session", to)
	}
	st.Dispatch(SetCurrentStep{Step: to})
	return nil
}

// Navigate jumps directly to a step. Every prior step must have completed,
// and without a token nothing past email is reachable.
func (st *Store) Navigate(to flow.Step) error {
	if !st.CanNavigate(to) {
		return fmt.Errorf("session: step %s is not reachable yet", to)
	}
	st.Dispatch(SetCurrentStep{Step: to})
	return nil
}

// CanNavigate reports whether a direct jump to the step is allowed.
func (st *Store) CanNavigate(to flow.Step) bool {
	st.mu.Lock()
	completed := append([]flow.Step(nil), st.state.Progress.CompletedSteps...)
	token := st.state.OTP.AuthToken
	st.mu.Unlock()

	if token == "" && to > flow.StepEmail {
		return false
	}
	return flow.Reachable(to, completed)
}

// Logout clears the auth token. Downstream completed flags stay recorded
// but become unreachable until a new token is issued.
func (st *Store) Logout() {
	st.Dispatch(ClearAuthToken{})
}
