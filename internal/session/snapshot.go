// internal/session/snapshot.go
//
// Sanitized state persistence. The snapshot excludes the auth token; derived
// quote data and loading/error flags are force-cleared on load so a restored
// session never trusts stale prices.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshotter reads and writes the session snapshot file.
type Snapshotter struct {
	path string
}

// NewSnapshotter targets the given snapshot file.
func NewSnapshotter(path string) *Snapshotter {
	return &Snapshotter{path: path}
}

// Path returns the snapshot file location.
func (p *Snapshotter) Path() string {
	if p == nil {
		return ""
	}
	return p.path
}

// Save writes the sanitized state to disk.
func (p *Snapshotter) Save(state State) error {
	if p == nil {
		return nil
	}
	sanitized := sanitize(state)
	data, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("session: ensure state dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write snapshot: %w", err)
	}
	return nil
}

// Load reads a previously saved snapshot. The second return value reports
// whether a snapshot existed.
func (p *Snapshotter) Load() (State, bool, error) {
	if p == nil {
		return NewState(), false, nil
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewState(), false, nil
		}
		return NewState(), false, fmt.Errorf("session: read snapshot: %w", err)
	}
	loaded := NewState()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return NewState(), false, fmt.Errorf("session: decode snapshot: %w", err)
	}
	loaded = sanitize(loaded)
	if loaded.Progress.TotalSteps == 0 {
		loaded.Progress.TotalSteps = NewState().Progress.TotalSteps
	}
	return loaded, true, nil
}

// sanitize strips the auth token and every transient quote field. Applied on
// both save and load so a hand-edited snapshot cannot smuggle a token in.
func sanitize(state State) State {
	state.OTP.AuthToken = ""
	state.OTP.Verified = false
	state.Quote.Result = nil
	state.Quote.Loading = false
	state.Quote.Err = ""
	return state
}
