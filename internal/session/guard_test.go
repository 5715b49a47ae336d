package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func countingRefresh(count *atomic.Int64, token string) RefreshFunc {
	return func(ctx context.Context, current string) (string, error) {
		count.Add(1)
		return token, nil
	}
}

func TestGuardRefreshesPeriodically(t *testing.T) {
	store := NewStore()
	var calls atomic.Int64
	guard := NewGuard(store, countingRefresh(&calls, ""), WithInterval(20*time.Millisecond))
	defer guard.Stop()

	guard.SetToken("tok-1")
	time.Sleep(75 * time.Millisecond)

	if got := calls.Load(); got < 3 {
		t.Fatalf("expected immediate refresh plus ticks, got %d calls", got)
	}
	if store.AuthToken() != "tok-1" {
		t.Fatalf("unchanged refresh result must retain the token")
	}
}

func TestGuardReplacesChangedToken(t *testing.T) {
	store := NewStore()
	cache := &MemoryTokenCache{}
	var calls atomic.Int64
	guard := NewGuard(store, countingRefresh(&calls, "tok-2"), WithInterval(time.Hour), WithTokenCache(cache))
	defer guard.Stop()

	guard.SetToken("tok-1")
	waitFor(t, func() bool { return store.AuthToken() == "tok-2" })

	if cached, _ := cache.Get(); cached != "tok-2" {
		t.Fatalf("cache = %q, want refreshed token", cached)
	}
}

func TestGuardStopsOnClear(t *testing.T) {
	store := NewStore()
	var calls atomic.Int64
	guard := NewGuard(store, countingRefresh(&calls, ""), WithInterval(20*time.Millisecond))

	guard.SetToken("tok-1")
	time.Sleep(50 * time.Millisecond)
	guard.Clear()
	after := calls.Load()

	// More than one interval passes with no further refresh call.
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != after {
		t.Fatalf("refresh observed after logout: %d -> %d", after, got)
	}
	if store.AuthToken() != "" {
		t.Fatalf("clear must log the session out")
	}
}

func TestGuardSwallowsRefreshFailures(t *testing.T) {
	store := NewStore()
	var calls atomic.Int64
	refresh := func(ctx context.Context, token string) (string, error) {
		calls.Add(1)
		return "", context.DeadlineExceeded
	}
	guard := NewGuard(store, refresh, WithInterval(15*time.Millisecond))
	defer guard.Stop()

	guard.SetToken("tok-1")
	waitFor(t, func() bool { return calls.Load() >= 3 })

	if store.AuthToken() != "tok-1" {
		t.Fatalf("failed refresh must retain the old token")
	}
}

func TestGuardRestoresCachedToken(t *testing.T) {
	store := NewStore()
	cache := &MemoryTokenCache{}
	if err := cache.Put("cached-tok"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	var calls atomic.Int64
	guard := NewGuard(store, countingRefresh(&calls, ""), WithInterval(time.Hour), WithTokenCache(cache))
	defer guard.Stop()

	guard.Start(context.Background())
	if store.AuthToken() != "cached-tok" {
		t.Fatalf("token = %q, want restored cache value", store.AuthToken())
	}
}

func TestGuardRunsSingleTicker(t *testing.T) {
	store := NewStore()
	var calls atomic.Int64
	guard := NewGuard(store, countingRefresh(&calls, ""), WithInterval(25*time.Millisecond))
	defer guard.Stop()

	// Rapid token replacement must not stack tickers: after the immediate
	// refreshes settle, the call rate stays at one per interval.
	guard.SetToken("tok-1")
	guard.SetToken("tok-2")
	guard.SetToken("tok-3")
	settled := calls.Load()

	time.Sleep(60 * time.Millisecond)
	got := calls.Load() - settled
	if got > 3 {
		t.Fatalf("expected at most one ticker firing, saw %d calls in two intervals", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
