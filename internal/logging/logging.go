// Package logging builds the process logger. Logs go to a file because stdout
// carries command output and the TUI owns the terminal.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const DefaultFileName = "seller.log"

type Options struct {
	// Level is debug|info|warn|error.
	Level string
	// File is the log path. Empty means DefaultFileName inside Dir; "-" disables logging.
	File string
	// Format is text|json.
	Format string
	Dir    string
	// Service is attached to every record.
	Service string
}

func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q (expected debug|info|warn|error)", s)
	}
}

// Discard returns a logger that writes nowhere.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (expected text|json)", opts.Format)
	}
	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger(), nil
}

// Open opens (appending) the log file described by opts. The returned close
// function is never nil.
func Open(opts Options) (zerolog.Logger, func() error, error) {
	nop := func() error { return nil }
	path := strings.TrimSpace(opts.File)
	if path == "-" {
		return Discard(), nop, nil
	}
	if path == "" {
		if opts.Dir == "" {
			return Discard(), nop, nil
		}
		path = filepath.Join(opts.Dir, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Discard(), nop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return Discard(), nop, err
	}
	l, err := New(f, opts)
	if err != nil {
		_ = f.Close()
		return Discard(), nop, err
	}
	return l, f.Close, nil
}
