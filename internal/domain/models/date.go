package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format used for all calendar fields.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component. The backend serializes
// dates either as YYYY-MM-DD or as YYYY-MM-DDT00:00:00; both are accepted
// on decode, and encoding always emits the short form.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string, tolerating a trailing time component.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, 'T'); idx >= 0 {
		s = s[:idx]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// DateOf truncates a time to its calendar day.
func DateOf(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON emits the date as a quoted YYYY-MM-DD string, or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts null, YYYY-MM-DD and YYYY-MM-DDT00:00:00 strings.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
