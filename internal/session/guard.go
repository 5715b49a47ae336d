// internal/session/guard.go
//
// The token refresh guard keeps the auth token alive across the multi-call
// KYC handshake. It is owned by the session lifecycle, not by any UI
// component: start/stop follows authentication state transitions, and
// exactly one ticker goroutine is live at a time.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/kingrea/onramp/internal/logbook"
)

const defaultRefreshInterval = 9 * time.Minute

// RefreshFunc trades the current token for a fresh one.
type RefreshFunc func(ctx context.Context, token string) (string, error)

// Guard runs the periodic token refresh.
type Guard struct {
	store    *Store
	refresh  RefreshFunc
	interval time.Duration
	cache    TokenCache
	log      *logbook.Logbook

	mu     sync.Mutex
	base   context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// GuardOption customizes guard construction.
type GuardOption func(*Guard)

// WithInterval overrides the refresh cadence. Must stay below the external
// token TTL.
func WithInterval(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithTokenCache enables short-lived token persistence across restarts.
func WithTokenCache(c TokenCache) GuardOption {
	return func(g *Guard) { g.cache = c }
}

// WithGuardLogbook routes refresh failures to the logbook.
func WithGuardLogbook(l *logbook.Logbook) GuardOption {
	return func(g *Guard) { g.log = l }
}

// NewGuard builds a guard over the given store and refresh call.
func NewGuard(store *Store, refresh RefreshFunc, opts ...GuardOption) *Guard {
	g := &Guard{
		store:    store,
		refresh:  refresh,
		interval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Start restores a cached token when the store has none, then begins
// refreshing if a token is live. The context bounds every refresh call;
// cancelling it stops the ticker.
func (g *Guard) Start(ctx context.Context) {
	g.mu.Lock()
	g.base = ctx
	g.mu.Unlock()

	if g.store.AuthToken() == "" && g.cache != nil {
		if token, ok := g.cache.Get(); ok {
			g.SetToken(token)
			return
		}
	}
	if g.store.AuthToken() != "" {
		g.restartTicker()
	}
}

// SetToken installs a freshly issued token, persists it to the cache, and
// restarts the refresh ticker with an immediate refresh.
func (g *Guard) SetToken(token string) {
	g.store.Dispatch(SetAuthToken{Token: token})
	if g.cache != nil {
		if err := g.cache.Put(token); err != nil {
			g.log.Warn("session: token cache write failed: %v", err)
		}
	}
	g.restartTicker()
}

// Clear logs the session out and stops refreshing.
func (g *Guard) Clear() {
	g.stopTicker()
	g.store.Logout()
	if g.cache != nil {
		if err := g.cache.Delete(); err != nil {
			g.log.Warn("session: token cache delete failed: %v", err)
		}
	}
}

// Stop halts the ticker without touching the session state.
func (g *Guard) Stop() {
	g.stopTicker()
}

func (g *Guard) restartTicker() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
	base := g.base
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	done := make(chan struct{})
	g.cancel = cancel
	g.done = done
	go g.loop(ctx, done)
}

func (g *Guard) stopTicker() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

func (g *Guard) stopLocked() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.cancel = nil
	g.done = nil
}

func (g *Guard) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	g.refreshOnce(ctx)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.refreshOnce(ctx)
		}
	}
}

// refreshOnce performs one refresh attempt. Failures are non-fatal: the old
// token is retained and the next tick retries.
func (g *Guard) refreshOnce(ctx context.Context) {
	current := g.store.AuthToken()
	if current == "" {
		return
	}
	fresh, err := g.refresh(ctx, current)
	if err != nil {
		g.log.Warn("session: token refresh failed: %v", err)
		return
	}
	if fresh == "" || fresh == current {
		return
	}
	g.store.Dispatch(SetAuthToken{Token: fresh})
	if g.cache != nil {
		if err := g.cache.Put(fresh); err != nil {
			g.log.Warn("session: token cache write failed: %v", err)
		}
	}
}
