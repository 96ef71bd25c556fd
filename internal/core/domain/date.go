package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateKeyLayout is the form used to key completions and exceptions.
const DateKeyLayout = "2006-01-02"

// dateStampLayout is the wire form for date fields: UTC midnight with
// explicit milliseconds, matching what offline clients persist.
const dateStampLayout = "2006-01-02T15:04:05.000Z"

// Date is a calendar day pinned to UTC midnight. It is the only value
// ever used to decide whether two instants mean "the same day".
type Date struct {
	time.Time
}

// NewDate builds the canonical date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Canonicalize collapses any instant onto its UTC calendar day.
func Canonicalize(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts a YYYY-MM-DD string or any RFC 3339 timestamp and
// returns the canonical date. Malformed input is a caller bug and is
// reported, never coerced to "now".
func ParseDate(value string) (Date, error) {
	if t, err := time.Parse(DateKeyLayout, value); err == nil {
		return Canonicalize(t), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return Canonicalize(t), nil
	}
	if t, err := time.Parse(dateStampLayout, value); err == nil {
		return Canonicalize(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// Key returns the YYYY-MM-DD form used in sets and map keys.
func (d Date) Key() string {
	return d.Time.Format(DateKeyLayout)
}

// Stamp returns the ISO UTC-midnight form persisted on the wire.
func (d Date) Stamp() string {
	return d.Time.Format(dateStampLayout)
}

func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// AddDays walks whole calendar days, which is safe because the value is
// already pinned to UTC midnight.
func (d Date) AddDays(days int) Date {
	return Date{d.Time.AddDate(0, 0, days)}
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// DaysSince returns the number of whole days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time.Sub(other.Time) / (24 * time.Hour))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Stamp())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
