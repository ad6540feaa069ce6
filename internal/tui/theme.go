package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colors stay readable on light and dark backgrounds; faint is only applied
// on dark ones.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSurfaceBg  lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorControlBg  lipgloss.TerminalColor = ac("252", "235")
	colorInputBg    lipgloss.TerminalColor = ac("254", "234")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")

	// Alert and badge colors.
	colorSuccess   lipgloss.TerminalColor = ac("28", "78")
	colorError     lipgloss.TerminalColor = ac("196", "160")
	colorInfo      lipgloss.TerminalColor = ac("25", "75")
	colorHold      lipgloss.TerminalColor = ac("130", "214")
	colorTrackFill lipgloss.TerminalColor = ac("151", "29")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleChrome() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorChromeFg)
}

// receiptStyle is the glamour style matching the detected background.
func receiptStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return styles.NoTTYStyle
	}
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// applyColorProfilePreference honors NO_COLOR and otherwise trusts
// TERM/COLORTERM over termenv's probe when they claim more colors.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the light or dark palette from the environment,
// falling back to the macOS appearance and then to lipgloss's own probe.
func applyThemePreference() {
	if dark, ok := darkBackgroundFromEnv(os.Getenv); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}
	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
		}
	}
}

// darkBackgroundFromEnv reads, in order, SELLER_TUI_THEME (light|dark|auto),
// SELLER_TUI_DARKBG (bool) and COLORFGBG ("fg;bg", bg below 7 is dark).
func darkBackgroundFromEnv(getenv func(string) string) (dark, ok bool) {
	switch strings.ToLower(strings.TrimSpace(getenv("SELLER_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(getenv("SELLER_TUI_DARKBG"))); err == nil {
		return b, true
	}
	if v := strings.TrimSpace(getenv("COLORFGBG")); v != "" {
		bg := v[strings.LastIndex(v, ";")+1:]
		if n, err := strconv.Atoi(strings.TrimSpace(bg)); err == nil {
			return n < 7, true
		}
	}
	return false, false
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// Exit status 1 means the key is missing, i.e. light mode.
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
