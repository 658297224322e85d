package services

import "time"

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// Clock abstracts the wall clock so every date-dependent calculation can be
// tested against a fixed point in time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// CurrentMonth returns the current month as "YYYY-MM".
func CurrentMonth(clock Clock) string {
	return clock.Now().Format(monthLayout)
}

// Today returns the current date as "YYYY-MM-DD".
func Today(clock Clock) string {
	return clock.Now().Format(dateLayout)
}

// DaysRemainingInMonth counts the days left in the current month, today
// included: it is never below 1 and exactly 1 on the last day.
func DaysRemainingInMonth(clock Clock) int {
	now := clock.Now()
	// Day 0 of the next month is the last day of this one.
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return lastDay - now.Day() + 1
}
