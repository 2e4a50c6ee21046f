package scheduling

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used throughout the scheduler.
// Dates are interpreted in UTC.
const DateLayout = "2006-01-02"

// TimeLayout is the slot time-of-day format.
const TimeLayout = "15:04"

// SlotGrid enumerates the bookable times of a clinic day. The clinic hours
// and granularity are configuration, not a hard-coded list, because different
// clinics publish different hours.
type SlotGrid struct {
	OpenHour    int // first bookable hour, inclusive
	CloseHour   int // closing hour, exclusive
	SlotMinutes int // slot granularity in minutes
}

// DefaultSlotGrid is 08:00-18:00 in half-hour increments.
func DefaultSlotGrid() SlotGrid {
	return SlotGrid{OpenHour: 8, CloseHour: 18, SlotMinutes: 30}
}

// Slots returns every bookable HH:MM time of a clinic day, in order.
func (g SlotGrid) Slots() []string {
	if g.SlotMinutes <= 0 || g.CloseHour <= g.OpenHour {
		return nil
	}
	var slots []string
	openMin := g.OpenHour * 60
	closeMin := g.CloseHour * 60
	for m := openMin; m < closeMin; m += g.SlotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// Contains reports whether t is one of the grid's bookable times. Free-text
// times that do not land exactly on the grid are rejected.
func (g SlotGrid) Contains(t string) bool {
	parsed, err := time.Parse(TimeLayout, t)
	if err != nil || parsed.Format(TimeLayout) != t {
		return false
	}
	minutes := parsed.Hour()*60 + parsed.Minute()
	if minutes < g.OpenHour*60 || minutes >= g.CloseHour*60 {
		return false
	}
	return g.SlotMinutes > 0 && (minutes-g.OpenHour*60)%g.SlotMinutes == 0
}

// ParseDate parses a strict YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if parsed.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return parsed, nil
}
