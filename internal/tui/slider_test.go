package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func mouse(action tea.MouseAction, x int) tea.MouseMsg {
	return tea.MouseMsg{Action: action, Button: tea.MouseButtonLeft, X: x, Y: 0}
}

func TestSlideBar_MouseDragPastThresholdConfirms(t *testing.T) {
	sb := newSlideBar(400, 60)
	sb.bind("order-1")

	// Pressing the track beyond the thumb does nothing.
	sb.handleMouse(mouse(tea.MouseActionPress, 1+20), 1, true)
	if sb.dragging {
		t.Fatalf("press outside the thumb must not start a drag")
	}

	sb.handleMouse(mouse(tea.MouseActionPress, 3), 1, true)
	if !sb.dragging {
		t.Fatalf("expected drag to start on the thumb")
	}
	sb.handleMouse(mouse(tea.MouseActionMotion, 3+31), 1, true)
	if got := sb.ctrl.Offset(); got != 310 {
		t.Fatalf("offset = %v, want 310", got)
	}
	if cmd := sb.handleMouse(mouse(tea.MouseActionRelease, 3+31), 1, true); cmd != nil {
		t.Fatalf("confirmed release should not animate")
	}
	if got := sb.takeConfirmed(); got != "order-1" {
		t.Fatalf("confirmed = %q, want order-1", got)
	}
	if got := sb.takeConfirmed(); got != "" {
		t.Fatalf("confirmation must be taken once, got %q", got)
	}
}

func TestSlideBar_DragClampsAndShortReleaseAnimates(t *testing.T) {
	sb := newSlideBar(400, 60)
	sb.bind("order-1")

	sb.handleMouse(mouse(tea.MouseActionPress, 1), 1, true)
	sb.handleMouse(mouse(tea.MouseActionMotion, -10), 1, true)
	if sb.ctrl.Offset() != 0 {
		t.Fatalf("expected clamp at 0, got %v", sb.ctrl.Offset())
	}
	sb.handleMouse(mouse(tea.MouseActionMotion, 1+100), 1, true)
	if sb.ctrl.Offset() != sb.ctrl.MaxOffset() {
		t.Fatalf("expected clamp at max %v, got %v", sb.ctrl.MaxOffset(), sb.ctrl.Offset())
	}
	sb.handleMouse(mouse(tea.MouseActionMotion, 1+12), 1, true)
	cmd := sb.handleMouse(mouse(tea.MouseActionRelease, 1+12), 1, true)
	if cmd == nil || !sb.animating() {
		t.Fatalf("expected snap-back animation")
	}
	if sb.takeConfirmed() != "" {
		t.Fatalf("short release must not confirm")
	}

	// A stale frame from an earlier animation is ignored.
	if next := sb.advance(snapFrameMsg{seq: sb.snapSeq - 1, frame: 0}); next != nil || sb.snapIdx != 0 {
		t.Fatalf("stale frame advanced the animation")
	}
}

func TestSlideBar_RebindCancelsGesture(t *testing.T) {
	sb := newSlideBar(400, 60)
	sb.bind("a")
	sb.nudge(5)
	sb.bind("b")
	if sb.ctrl.Offset() != 0 || sb.dragging {
		t.Fatalf("expected gesture cancelled on rebind")
	}

	sb.bind("")
	sb.nudge(5)
	if sb.ctrl.Offset() != 0 {
		t.Fatalf("unbound slider must not move")
	}
}

func TestSlideBar_ViewWidth(t *testing.T) {
	setGlyphs(glyphSetASCII)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	sb := newSlideBar(400, 60)
	sb.bind("a")
	sb.nudge(10)
	v := xansi.Strip(sb.view("go"))
	want := strings.Repeat("=", 10) + strings.Repeat("#", 6) + strings.Repeat(".", 24) + " go"
	if v != want {
		t.Fatalf("view = %q, want %q", v, want)
	}
}
