// Package schedule implements the priority-based scheduling conflict resolver.
//
// Every function is a pure decision over snapshots supplied by the caller: no
// I/O, no ambient state, safe to call concurrently. Persisting the effects of a
// decision (status updates, notifications) is the caller's job; see the store
// and api packages.
//
// Time model: slots are zone-naive trainer-local wall clock. Dates are opaque
// YYYY-MM-DD identifiers compared only for equality; times are HH:MM at minute
// granularity. Overnight spans are not representable.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSlot is returned when a supplied slot is malformed or its start is
// not strictly before its end.
var ErrInvalidSlot = errors.New("invalid time slot")

// TimeSlot is a calendar date plus a wall-clock interval on that date.
type TimeSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// minuteOfDay converts an HH:MM (or HH:MM:SS, extra precision ignored) wall-clock
// string into minutes since midnight.
func minuteOfDay(s string) (int, error) {
	if len(s) < 5 {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	t, err := time.Parse("15:04", s[:5])
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate checks the slot is well-formed: a parseable date, parseable times and
// start strictly before end. All public entry points of this package validate
// their candidate slot with this before deciding anything.
func (s TimeSlot) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidSlot, s.Date)
	}
	start, err := minuteOfDay(s.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	end, err := minuteOfDay(s.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidSlot, s.StartTime, s.EndTime)
	}
	return nil
}

// interval returns the slot's bounds in minutes since midnight. ok is false when
// either time fails to parse.
func (s TimeSlot) interval() (start, end int, ok bool) {
	start, err := minuteOfDay(s.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = minuteOfDay(s.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
