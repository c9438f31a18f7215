package model

import (
	"errors"
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

var (
	ErrInvalidFrequency = errors.New("model: invalid recurrence frequency")
	ErrInvalidInterval  = errors.New("model: invalid recurrence interval")
	ErrInvalidWeekday   = errors.New("model: invalid recurrence weekday")
)

// maxScanDays bounds the day-by-day search in NextAfter.
const maxScanDays = 366 * 50

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// Recurrence repeats an event every Interval units of Frequency starting from
// the event's start date. DaysOfWeek uses 0=Sunday..6=Saturday and only
// applies to WEEKLY rules.
type Recurrence struct {
	ID         string     `json:"id"`
	Frequency  Frequency  `json:"frequency"`
	Interval   int        `json:"interval"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	DaysOfWeek []int      `json:"daysOfWeek,omitempty"`
}

func (r Recurrence) Validate() error {
	if !r.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	seen := make(map[int]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
		if seen[d] {
			return fmt.Errorf("%w: duplicate %d", ErrInvalidWeekday, d)
		}
		seen[d] = true
	}
	return nil
}

// OccursOn reports whether a series starting at start has an occurrence on the
// calendar day containing day, evaluated in day's location.
func (r Recurrence) OccursOn(start, day time.Time) bool {
	loc := day.Location()
	first := truncateDay(start.In(loc))
	d := truncateDay(day)
	if d.Before(first) {
		return false
	}
	if r.EndDate != nil && d.After(truncateDay(r.EndDate.In(loc))) {
		return false
	}
	interval := r.Interval
	if interval <= 0 {
		interval = 1
	}

	switch r.Frequency {
	case FrequencyDaily:
		return daysBetween(first, d)%interval == 0
	case FrequencyWeekly:
		weeks := daysBetween(weekStart(first), weekStart(d)) / 7
		if weeks%interval != 0 {
			return false
		}
		return r.allowedWeekdays(first)[d.Weekday()]
	case FrequencyMonthly:
		months := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if months%interval != 0 {
			return false
		}
		return d.Day() == clampDay(d.Year(), d.Month(), first.Day())
	case FrequencyYearly:
		years := d.Year() - first.Year()
		if years%interval != 0 || d.Month() != first.Month() {
			return false
		}
		return d.Day() == clampDay(d.Year(), d.Month(), first.Day())
	default:
		return false
	}
}

// NextAfter returns the first occurrence strictly after from. Occurrences keep
// the wall clock of start. ok is false when the series has ended.
func (r Recurrence) NextAfter(start, from time.Time) (time.Time, bool) {
	if err := r.Validate(); err != nil {
		return time.Time{}, false
	}
	loc := start.Location()
	probe := truncateDay(from.In(loc))
	if first := truncateDay(start); probe.Before(first) {
		probe = first
	}
	for i := 0; i < maxScanDays; i++ {
		if r.EndDate != nil && probe.After(r.EndDate.In(loc)) {
			return time.Time{}, false
		}
		if r.OccursOn(start, probe) {
			occ := withClock(probe, start)
			if occ.After(from) {
				return occ, true
			}
		}
		probe = probe.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func (r Recurrence) Preview(start, from time.Time, count int) []time.Time {
	out := make([]time.Time, 0, max(count, 0))
	cursor := from
	for len(out) < count {
		next, ok := r.NextAfter(start, cursor)
		if !ok {
			break
		}
		out = append(out, next)
		cursor = next
	}
	return out
}

func (r Recurrence) allowedWeekdays(first time.Time) map[time.Weekday]bool {
	if len(r.DaysOfWeek) == 0 {
		return map[time.Weekday]bool{first.Weekday(): true}
	}
	m := make(map[time.Weekday]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		m[time.Weekday(d)] = true
	}
	return m
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func clampDay(y int, m time.Month, day int) int {
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

func withClock(date, clock time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), clock.Location())
}
