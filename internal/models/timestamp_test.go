package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2025-11-06T12:00:00Z"`, time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", `"2025-11-06T12:00:00+02:00"`, time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC)},
		{"zone-less", `"2025-11-06T12:00:00"`, time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshalJSONInvalid(t *testing.T) {
	for _, input := range []string{`"06-11-2025"`, `12345`, `"garbage"`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(input), &ts); err == nil {
			t.Errorf("Unmarshal(%s): expected error, got %v", input, ts.Time)
		}
	}
}

func TestTimestampMarshalJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC))
	got, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `"2025-11-06T12:00:00Z"` {
		t.Errorf("got %s", got)
	}
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)
	sources := []any{
		want,
		"2025-11-06 12:00:00",
		"2025-11-06T12:00:00Z",
		[]byte("2025-11-06 12:00:00+00:00"),
	}
	for _, src := range sources {
		var ts Timestamp
		if err := ts.Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if !ts.Equal(want) {
			t.Errorf("Scan(%v): got %v, want %v", src, ts.Time, want)
		}
	}
}
