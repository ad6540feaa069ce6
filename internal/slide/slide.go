// Package slide is the slide-to-confirm gesture: the thumb has to be dragged
// across most of the track before the completion callback runs.
package slide

import "math"

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// ReleaseMargin is how far short of the track end a release may stop and still confirm.
// A track must be longer than its height plus this margin.
const ReleaseMargin = 50

// Control tracks one gesture at a time. Height is both the track height and
// the thumb diameter. It is not safe for concurrent use; the UI loop owns it.
type Control struct {
	trackWidth float64
	height     float64
	onComplete func()

	state  State
	offset float64
}

func New(trackWidth, height float64, onComplete func()) *Control {
	if height < 0 {
		height = 0
	}
	if trackWidth < height {
		trackWidth = height
	}
	return &Control{trackWidth: trackWidth, height: height, onComplete: onComplete}
}

func (c *Control) TrackWidth() float64 { return c.trackWidth }
func (c *Control) Height() float64     { return c.height }
func (c *Control) State() State        { return c.state }
func (c *Control) Offset() float64     { return c.offset }

// MaxOffset is the furthest the thumb can travel.
func (c *Control) MaxOffset() float64 { return c.trackWidth - c.height }

// Threshold is the release displacement that must be exceeded to confirm.
func (c *Control) Threshold() float64 { return c.trackWidth - c.height - ReleaseMargin }

// Progress is the thumb position as a fraction of MaxOffset.
func (c *Control) Progress() float64 {
	if c.MaxOffset() <= 0 {
		return 0
	}
	return c.offset / c.MaxOffset()
}

// Move follows the drag. dx is the horizontal displacement since the gesture began.
func (c *Control) Move(dx float64) {
	c.state = Dragging
	c.offset = clamp(dx, 0, c.MaxOffset())
}

// Release ends the gesture. The callback fires once if dx is positive and
// exceeds Threshold. The thumb always returns to the start.
func (c *Control) Release(dx float64) bool {
	fired := dx > 0 && dx > c.Threshold()
	c.state = Idle
	c.offset = 0
	if fired && c.onComplete != nil {
		c.onComplete()
	}
	return fired
}

// Cancel abandons the gesture without firing.
func (c *Control) Cancel() {
	c.state = Idle
	c.offset = 0
}

// SnapBack returns offsets for animating the thumb from `from` back to 0 over
// n frames, easing out. The last frame is always 0.
func SnapBack(from float64, n int) []float64 {
	if n <= 0 {
		return []float64{0}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i+1) / float64(n)
		ease := 1 - math.Pow(1-t, 3)
		out[i] = from * (1 - ease)
	}
	out[n-1] = 0
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
