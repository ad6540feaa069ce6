package slide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelease_Thresholds(t *testing.T) {
	const width, height = 400.0, 60.0
	tests := []struct {
		name  string
		dx    float64
		fires bool
	}{
		{"60 short of the end", width - height - 60, false},
		{"exactly the threshold", width - height - 50, false},
		{"10 short of the end", width - height - 10, true},
		{"past the end", width + 100, true},
		{"backwards", -30, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			c := New(width, height, func() { calls++ })
			c.Move(tc.dx)
			assert.Equal(t, Dragging, c.State())

			fired := c.Release(tc.dx)
			assert.Equal(t, tc.fires, fired)
			if tc.fires {
				assert.Equal(t, 1, calls)
			} else {
				assert.Equal(t, 0, calls)
			}
			assert.Equal(t, 0.0, c.Offset())
			assert.Equal(t, Idle, c.State())
		})
	}
}

func TestMove_ClampsToTrack(t *testing.T) {
	c := New(400, 60, nil)
	c.Move(-20)
	assert.Equal(t, 0.0, c.Offset())
	c.Move(150)
	assert.Equal(t, 150.0, c.Offset())
	c.Move(1000)
	assert.Equal(t, 340.0, c.Offset())
	assert.Equal(t, 1.0, c.Progress())
}

func TestGestures_AreIndependent(t *testing.T) {
	calls := 0
	c := New(400, 60, func() { calls++ })
	c.Move(335)
	c.Release(335)
	c.Move(100)
	c.Release(100)
	c.Move(335)
	c.Cancel()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0.0, c.Offset())
}

func TestNew_NarrowTrack(t *testing.T) {
	c := New(30, 60, nil)
	assert.Equal(t, 0.0, c.MaxOffset())
	c.Move(10)
	assert.Equal(t, 0.0, c.Offset())
	assert.Equal(t, 0.0, c.Progress())
}

func TestRelease_ShortTrackNeedsForwardMovement(t *testing.T) {
	calls := 0
	c := New(100, 60, func() { calls++ })
	assert.Less(t, c.Threshold(), 0.0)

	c.Move(-10)
	assert.False(t, c.Release(0))
	c.Move(-10)
	assert.False(t, c.Release(-10))
	assert.Equal(t, 0, calls)

	c.Move(5)
	assert.True(t, c.Release(5))
	assert.Equal(t, 1, calls)
}

func TestSnapBack(t *testing.T) {
	frames := SnapBack(300, 6)
	assert.Len(t, frames, 6)
	assert.Equal(t, 0.0, frames[5])
	for i := 1; i < len(frames); i++ {
		assert.LessOrEqual(t, frames[i], frames[i-1])
	}
	assert.Less(t, frames[0], 300.0)
	assert.Equal(t, []float64{0}, SnapBack(50, 0))
}
