package services

import (
	"testing"
	"time"
)

func fixedClock(year int, month time.Month, day int) FixedClock {
	return FixedClock{T: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

func TestCurrentMonthAndToday(t *testing.T) {
	clock := fixedClock(2026, time.March, 5)

	if got := CurrentMonth(clock); got != "2026-03" {
		t.Errorf("CurrentMonth = %q, want 2026-03", got)
	}
	if got := Today(clock); got != "2026-03-05" {
		t.Errorf("Today = %q, want 2026-03-05", got)
	}
}

func TestDaysRemainingInMonth(t *testing.T) {
	tests := []struct {
		name  string
		clock FixedClock
		want  int
	}{
		{"first of a 31-day month", fixedClock(2026, time.January, 1), 31},
		{"mid month", fixedClock(2026, time.January, 15), 17},
		{"last day of month", fixedClock(2026, time.January, 31), 1},
		{"february non-leap", fixedClock(2026, time.February, 1), 28},
		{"february leap year", fixedClock(2028, time.February, 1), 29},
		{"last day of february", fixedClock(2026, time.February, 28), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemainingInMonth(tt.clock); got != tt.want {
				t.Errorf("DaysRemainingInMonth = %d, want %d", got, tt.want)
			}
		})
	}
}
