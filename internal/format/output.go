// Package format writes command envelopes as JSON or YAML.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON = "json"
	YAML = "yaml"
)

// Normalize maps accepted spellings to JSON or YAML; ok is false otherwise.
func Normalize(format string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", JSON:
		return JSON, true
	case YAML, "yml":
		return YAML, true
	}
	return "", false
}

func Valid(format string) bool {
	_, ok := Normalize(format)
	return ok
}

func Write(w io.Writer, v any, format string, pretty bool) error {
	f, ok := Normalize(format)
	if !ok {
		return fmt.Errorf("unknown format: %s", format)
	}
	if f == YAML {
		return WriteYAML(w, v)
	}
	return WriteJSON(w, v, pretty)
}

// WriteJSON writes one JSON document and a newline. Menu names and
// messages keep <, > and & as typed.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
