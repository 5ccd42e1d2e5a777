// models/timestamp.go
package models

import (
	"encoding/json"
	"time"
)

// timestampLayouts are tried in order. Timestamps without an offset are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a backend time that decodes from RFC 3339 as well as the
// offset-less form the API emits. Anything unparseable decodes to the
// zero time rather than failing the whole record.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, true
		}
	}
	return Timestamp{}, false
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil || raw == nil {
		*t = Timestamp{}
		return nil
	}
	*t, _ = ParseTimestamp(*raw)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
