package datespan

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// ErrInvalidRange is returned when a span's start date is after its end date.
var ErrInvalidRange = errors.New("start date is after end date")

// Normalize truncates t to its civil date, midnight UTC. Two timestamps on
// the same calendar day normalize to the same value.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized calendar day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Normalize(t), nil
}

// Span is an inclusive range of calendar days.
type Span struct {
	Start time.Time
	End   time.Time
}

// New builds a span from two timestamps, normalizing both to calendar days.
// Returns ErrInvalidRange if start is after end.
func New(start, end time.Time) (Span, error) {
	s := Span{Start: Normalize(start), End: Normalize(end)}
	if s.Start.After(s.End) {
		return Span{}, ErrInvalidRange
	}
	return s, nil
}

// Parse builds a span from two YYYY-MM-DD strings.
func Parse(start, end string) (Span, error) {
	from, err := ParseDay(start)
	if err != nil {
		return Span{}, err
	}
	to, err := ParseDay(end)
	if err != nil {
		return Span{}, err
	}
	return New(from, to)
}

// Days enumerates every calendar day in the span, ascending.
func (s Span) Days() []time.Time {
	var days []time.Time
	for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of calendar days in the span.
func (s Span) Len() int {
	return int(s.End.Sub(s.Start).Hours()/24) + 1
}

// Contains reports whether the calendar day of t falls inside the span.
func (s Span) Contains(t time.Time) bool {
	d := Normalize(t)
	return !d.Before(s.Start) && !d.After(s.End)
}

// NormalizeAll normalizes every timestamp to a calendar day, drops
// duplicates, and returns the result sorted ascending.
func NormalizeAll(ts []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(ts))
	days := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		d := Normalize(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
