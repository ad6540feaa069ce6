package navguard

import (
	"testing"
	"time"
)

func TestGuard_BlocksWithinWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewWithClock(Window, func() time.Time { return now })

	if !g.TryEnter() {
		t.Fatalf("first navigation should pass")
	}
	now = now.Add(300 * time.Millisecond)
	if g.TryEnter() {
		t.Fatalf("second navigation within 700ms should be dropped")
	}
	if !g.Busy() {
		t.Fatalf("expected busy")
	}
	now = now.Add(400 * time.Millisecond)
	if !g.TryEnter() {
		t.Fatalf("navigation at 700ms should pass")
	}
}

func TestGuard_Reset(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewWithClock(Window, func() time.Time { return now })
	g.TryEnter()
	g.Reset()
	if g.Busy() || !g.TryEnter() {
		t.Fatalf("reset should reopen the guard")
	}
}
