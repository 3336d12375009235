package model

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, wired to the API's
// YYYY-MM-DD JSON representation. Nullable date fields decode null or ""
// into the zero value.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// DaysBetween returns the signed number of calendar days from a reference
// instant to the date, both normalized to midnight in the reference's
// location. A date equal to the reference's day yields 0, yesterday -1.
func (d Date) DaysBetween(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	diff := target.Sub(today)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++ // ceil for DST-shortened days
	}
	return days
}
