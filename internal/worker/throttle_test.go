package worker

import (
	"context"
	"testing"
	"time"
)

func TestThrottle_New(t *testing.T) {
	th := NewThrottle(5 * time.Second)
	if th.interval != 5*time.Second {
		t.Errorf("expected 5s interval, got %v", th.interval)
	}

	th2 := NewThrottle(0)
	if th2.interval != time.Second {
		t.Errorf("expected default 1s interval for zero input, got %v", th2.interval)
	}

	th3 := NewThrottle(-time.Second)
	if th3.interval != time.Second {
		t.Errorf("expected default 1s interval for negative input, got %v", th3.interval)
	}
}

func TestThrottle_FloorPerPath(t *testing.T) {
	th := NewThrottle(time.Hour)

	// First regeneration passes, immediate second one is held back.
	if !th.Allow("chats/a.txt") {
		t.Error("first regeneration should pass")
	}
	if th.Allow("chats/a.txt") {
		t.Error("second regeneration should be throttled")
	}

	// Other paths are unaffected
	if !th.Allow("chats/b.txt") {
		t.Error("other paths should pass")
	}
}

func TestThrottle_Wait(t *testing.T) {
	th := NewThrottle(10 * time.Millisecond)
	ctx := context.Background()

	if err := th.Wait(ctx, "chats/a.txt"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// The second wait blocks until the interval has passed.
	start := time.Now()
	if err := th.Wait(ctx, "chats/a.txt"); err != nil {
		t.Errorf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected wait to enforce the interval, returned after %v", elapsed)
	}
}

func TestThrottle_WaitCancelled(t *testing.T) {
	th := NewThrottle(time.Hour)

	if err := th.Wait(context.Background(), "chats/a.txt"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := th.Wait(ctx, "chats/a.txt"); err == nil {
		t.Error("expected context error while throttled, got nil")
	}
}
