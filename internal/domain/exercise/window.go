package exercise

import (
	"errors"
	"time"

	"github.com/stepclass/stepclass-hub/pkg/timeutil"
)

// ErrUnknownPeriod is returned when a period selector cannot be parsed.
var ErrUnknownPeriod = errors.New("exercise: unknown period")

// Period selects a statistics window relative to the current day.
type Period string

const (
	// PeriodDay covers today only.
	PeriodDay Period = "day"
	// PeriodWeek covers the trailing 7 calendar days, today inclusive.
	PeriodWeek Period = "week"
	// PeriodMonth covers the trailing 30 calendar days, today inclusive.
	PeriodMonth Period = "month"
)

// IsValid checks if the period is one of the known selectors.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	default:
		return false
	}
}

// String returns the string representation of the period.
func (p Period) String() string {
	return string(p)
}

// Days returns the number of calendar days the period spans.
func (p Period) Days() int {
	switch p {
	case PeriodDay:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 0
	}
}

// ParsePeriod parses a period selector. An unknown value is rejected,
// it never silently defaults.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", ErrUnknownPeriod
	}
	return p, nil
}

// Window is a trailing range of calendar days, both ends inclusive.
// From and To are Almaty midnights.
type Window struct {
	From time.Time
	To   time.Time
}

// ResolveWindow resolves a period into a concrete window ending today.
// This is the single window-resolution implementation shared by the
// statistics aggregator and the leaderboard, so dashboard and ranking
// figures can never drift apart.
func ResolveWindow(p Period, today time.Time) Window {
	day := timeutil.StartOfDay(today)
	days := p.Days()
	if days < 1 {
		days = 1
	}
	return Window{
		From: day.AddDate(0, 0, -(days - 1)),
		To:   day,
	}
}

// WeekWindow is the trailing-7-day window the leaderboard scores over.
func WeekWindow(today time.Time) Window {
	return ResolveWindow(PeriodWeek, today)
}

// Contains checks whether a date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	d := timeutil.StartOfDay(date)
	return !d.Before(w.From) && !d.After(w.To)
}

// DayCount returns the number of calendar days in the window.
func (w Window) DayCount() int {
	return timeutil.DaysBetween(w.From, w.To) + 1
}
