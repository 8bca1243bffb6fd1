package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timestampLayouts lists the accepted created_dt formats. Zone-less values are
// taken as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Timestamp is a time.Time that accepts both RFC3339 and zone-less ISO8601
// values in JSON and marshals back as RFC3339 UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalizes t to UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", s)
	}
	s = s[1 : len(s)-1]
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q, expected ISO8601", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// Value implements driver.Valuer so both SQL drivers store a plain time.Time.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC(), nil
}

// Scan accepts the time.Time both drivers return for timestamp columns, plus
// the string form SQLite hands back for TEXT-affinity columns.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) scanString(s string) error {
	layouts := append([]string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	}, timestampLayouts...)
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot scan %q into Timestamp", s)
}
