package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical storage format for calendar dates.
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the dd/mm/yyyy format used by field teams.
	DisplayDateLayout = "02/01/2006"
	// shortDateLayout also takes one-digit day and month, as chat exports do.
	shortDateLayout = "2/1/2006"
)

// ParseDate accepts yyyy-mm-dd or d/m/yyyy (day and month with one or two
// digits) and returns the date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{DateLayout, DisplayDateLayout, shortDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", s)
}

// ParseOptionalDate is ParseDate for optional inputs; empty yields nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DateOnly drops the time-of-day component, keeping the calendar day as
// seen in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// FormatDate renders a calendar date in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
