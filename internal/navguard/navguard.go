// Package navguard drops repeated navigation requests that arrive within a
// short window, so a double key press pushes one screen instead of two.
package navguard

import (
	"sync"
	"time"
)

const Window = 700 * time.Millisecond

type Guard struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	until  time.Time
}

func New() *Guard { return NewWithClock(Window, time.Now) }

// NewWithClock is New with an explicit window and clock.
func NewWithClock(window time.Duration, now func() time.Time) *Guard {
	if now == nil {
		now = time.Now
	}
	return &Guard{window: window, now: now}
}

// TryEnter reports whether a navigation may proceed and, if so, blocks
// further ones for the window.
func (g *Guard) TryEnter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t := g.now()
	if t.Before(g.until) {
		return false
	}
	g.until = t.Add(g.window)
	return true
}

// Busy reports whether a navigation is still inside its window.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.until)
}

// Reset clears the window immediately.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.until = time.Time{}
	g.mu.Unlock()
}
