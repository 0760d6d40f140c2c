package pacing_test

import (
	"context"
	"testing"
	"time"

	"github.com/leabeefollowme/chat-widget-backend/pkg/pacing"
)

func TestRateLimitedCutsRate(t *testing.T) {
	lim := pacing.NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("CurrentLimit = %v, want 2 after halving", got)
	}
	lim.RateLimited()
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("CurrentLimit = %v, want floor at 1", got)
	}
}

func TestSuccessHoldsBackAfterRecentError(t *testing.T) {
	lim := pacing.NewAdaptiveLimiter(2, 1, 8, 1, 0.5)
	lim.RateLimited()
	lim.Success()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("CurrentLimit = %v, want 1 (no step up right after an error)", got)
	}
}

func TestSuccessCapsAtMax(t *testing.T) {
	lim := pacing.NewAdaptiveLimiter(7, 1, 8, 2, 0.5)
	lim.Success()
	lim.Success()
	if got := lim.CurrentLimit(); got != 8 {
		t.Fatalf("CurrentLimit = %v, want cap at 8", got)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	lim := pacing.NewAdaptiveLimiter(1, 1, 1, 1, 0.5)
	// Drain the single burst token, then expect the next Wait to block
	// until the context dies.
	if err := lim.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := lim.Wait(ctx); err == nil {
		t.Fatal("expected context error from second Wait")
	}
}
