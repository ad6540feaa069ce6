package tui

import (
	"math"
	"strings"
	"time"

	"seller-cli/internal/slide"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// cellUnits is how many slide units one terminal column stands for.
	cellUnits = 10
	// snapFrames and snapFrameDelay shape the return animation.
	snapFrames     = 8
	snapFrameDelay = 16 * time.Millisecond
)

type snapFrameMsg struct {
	seq   int
	frame int
}

// slideBar binds a slide.Control to one cook order and to terminal input:
// ←/→ nudge the thumb, enter releases, and a left-button drag moves it.
type slideBar struct {
	ctrl *slide.Control

	orderID   string
	confirmed string

	dragging bool
	pressX   int

	// Snap-back animation, visual only: the control is already at 0.
	snap    []float64
	snapIdx int
	snapSeq int
}

func newSlideBar(trackWidth, height float64) *slideBar {
	sb := &slideBar{}
	sb.ctrl = slide.New(trackWidth, height, func() { sb.confirmed = sb.orderID })
	return sb
}

// bind points the bar at orderID; an in-flight gesture is abandoned when the
// target changes.
func (sb *slideBar) bind(orderID string) {
	if sb.orderID == orderID {
		return
	}
	sb.orderID = orderID
	sb.ctrl.Cancel()
	sb.dragging = false
}

// takeConfirmed returns the order id the last release confirmed, once.
func (sb *slideBar) takeConfirmed() string {
	id := sb.confirmed
	sb.confirmed = ""
	return id
}

func (sb *slideBar) trackCells() int { return int(sb.ctrl.TrackWidth() / cellUnits) }
func (sb *slideBar) thumbCells() int { return max(int(sb.ctrl.Height()/cellUnits), 1) }

// displayOffset is the thumb offset to draw, following the animation when one runs.
func (sb *slideBar) displayOffset() float64 {
	if sb.snapIdx < len(sb.snap) {
		return sb.snap[sb.snapIdx]
	}
	return sb.ctrl.Offset()
}

func (sb *slideBar) nudge(cells int) {
	if sb.orderID == "" {
		return
	}
	sb.stopSnap()
	sb.ctrl.Move(sb.ctrl.Offset() + float64(cells*cellUnits))
}

// release ends the gesture at the current offset. A release that does not
// confirm animates back.
func (sb *slideBar) release(dx float64) tea.Cmd {
	if sb.orderID == "" {
		return nil
	}
	from := sb.ctrl.Offset()
	sb.dragging = false
	if sb.ctrl.Release(dx) {
		return nil
	}
	if from <= 0 {
		return nil
	}
	sb.snap = slide.SnapBack(from, snapFrames)
	sb.snapIdx = 0
	sb.snapSeq++
	return snapTick(sb.snapSeq, 0)
}

func (sb *slideBar) cancel() {
	sb.dragging = false
	sb.ctrl.Cancel()
	sb.stopSnap()
}

func (sb *slideBar) stopSnap() {
	sb.snap = nil
	sb.snapIdx = 0
	sb.snapSeq++
}

func snapTick(seq, frame int) tea.Cmd {
	return tea.Tick(snapFrameDelay, func(time.Time) tea.Msg { return snapFrameMsg{seq: seq, frame: frame} })
}

// advance steps the animation. Frames from an older animation are ignored.
func (sb *slideBar) advance(msg snapFrameMsg) tea.Cmd {
	if msg.seq != sb.snapSeq || sb.snap == nil {
		return nil
	}
	sb.snapIdx = msg.frame + 1
	if sb.snapIdx >= len(sb.snap) {
		sb.snap = nil
		sb.snapIdx = 0
		return nil
	}
	return snapTick(msg.seq, sb.snapIdx)
}

func (sb *slideBar) animating() bool { return sb.snap != nil }

// handleKey reports whether the key belonged to the slider.
func (sb *slideBar) handleKey(k tea.KeyMsg) (bool, tea.Cmd) {
	switch k.String() {
	case "right", "l":
		sb.nudge(1)
		return true, nil
	case "shift+right":
		sb.nudge(5)
		return true, nil
	case "left", "h":
		sb.nudge(-1)
		return true, nil
	case "enter", " ":
		if sb.ctrl.State() != slide.Dragging {
			return false, nil
		}
		return true, sb.release(sb.ctrl.Offset())
	case "esc":
		if sb.ctrl.State() != slide.Dragging {
			return false, nil
		}
		sb.cancel()
		return true, nil
	}
	return false, nil
}

// handleMouse follows a left-button drag that starts on the thumb. x0 is the
// screen column where the track begins and onRow reports whether the event
// is on the slider's row.
func (sb *slideBar) handleMouse(msg tea.MouseMsg, x0 int, onRow bool) tea.Cmd {
	if sb.orderID == "" {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onRow {
			return nil
		}
		thumbStart := x0 + int(sb.ctrl.Offset()/cellUnits)
		if msg.X < thumbStart || msg.X >= thumbStart+sb.thumbCells() {
			return nil
		}
		sb.stopSnap()
		sb.dragging = true
		sb.pressX = msg.X - int(sb.ctrl.Offset()/cellUnits)
		sb.ctrl.Move(sb.ctrl.Offset())
	case tea.MouseActionMotion:
		if sb.dragging {
			sb.ctrl.Move(float64((msg.X - sb.pressX) * cellUnits))
		}
	case tea.MouseActionRelease:
		if sb.dragging {
			return sb.release(float64((msg.X - sb.pressX) * cellUnits))
		}
	}
	return nil
}

// view draws the track with the filled part behind the thumb and a label.
func (sb *slideBar) view(label string) string {
	track := sb.trackCells()
	thumb := sb.thumbCells()
	if track < thumb {
		track = thumb
	}
	pos := int(math.Round(sb.displayOffset() / cellUnits))
	pos = min(max(pos, 0), track-thumb)

	fill := lipgloss.NewStyle().Foreground(colorTrackFill)
	rest := styleMuted()
	knob := lipgloss.NewStyle().Foreground(colorAccent)
	if sb.orderID == "" {
		knob = styleMuted()
	}

	var b strings.Builder
	b.WriteString(fill.Render(strings.Repeat(glyphTrackFill(), pos)))
	b.WriteString(knob.Render(strings.Repeat(glyphThumb(), thumb)))
	b.WriteString(rest.Render(strings.Repeat(glyphTrack(), track-thumb-pos)))
	b.WriteString(" ")
	b.WriteString(label)
	return b.String()
}
