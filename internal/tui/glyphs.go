package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render block and arrow glyphs badly, so every affordance has an
// ASCII fallback (SELLER_TUI_GLYPHS=ascii).

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SELLER_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphBullet() string    { return pick("•", "*") }
func glyphArrow() string     { return pick("→", "->") }
func glyphThumb() string     { return pick("█", "#") }
func glyphTrack() string     { return pick("░", ".") }
func glyphTrackFill() string { return pick("▒", "=") }
func glyphNext() string      { return pick("▶", ">") }
func glyphFastLane() string  { return pick("⚡", "!") }
func glyphSeparator() string { return pick("│", "|") }
func glyphTimes() string     { return pick("×", "x") }
func glyphCheck() string     { return pick("✓", "v") }
func glyphPause() string     { return pick("⏸", "=") }
func glyphRule() string      { return pick("─", "-") }
