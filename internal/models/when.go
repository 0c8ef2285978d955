package models

import (
	"encoding/json"
	"time"
)

// When is a timestamp that tolerates the formats found in the wild.
// Exports from the web version of this app mix full RFC3339 strings with the
// raw value of an HTML datetime-local input ("2006-01-02T15:04") and plain
// dates. Anything unparseable decodes to the zero value, which readers treat
// as "no date" rather than an error.
type When struct {
	time.Time
}

var whenLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NewWhen wraps a time.Time.
func NewWhen(t time.Time) When {
	return When{Time: t}
}

// ParseWhen parses s with the known layouts. ok is false when s is empty or
// matches none of them.
func ParseWhen(s string) (When, bool) {
	if s == "" {
		return When{}, false
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return When{Time: t}, true
		}
	}
	return When{}, false
}

// MarshalJSON emits RFC3339, or null for the zero value.
func (w When) MarshalJSON() ([]byte, error) {
	if w.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(w.Format(time.RFC3339))
}

// UnmarshalJSON accepts a string in any known layout, null, or anything
// else, which all decode to the zero value on failure.
func (w *When) UnmarshalJSON(data []byte) error {
	*w = When{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Not a string (null, number, object). Treat as absent.
		return nil
	}
	if parsed, ok := ParseWhen(s); ok {
		*w = parsed
	}
	return nil
}
