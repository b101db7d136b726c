package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MinutesPerDay = 24 * 60
)

// TimeOfDay is a minute-of-day in [0, MinutesPerDay).
type TimeOfDay int

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, httperr.ErrValidation(
			httperr.CodeInvalidTime,
			fmt.Sprintf("Invalid time %q, expected HH:MM", s),
		)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// ParseDate reads a YYYY-MM-DD calendar date. The result is midnight UTC so
// that dates compare by value regardless of the server zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, httperr.ErrValidation(
			httperr.CodeInvalidDate,
			fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", s),
		)
	}
	return d, nil
}

// DateOf drops the clock part of t, keeping its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}
