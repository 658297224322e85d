package services

import (
	"math"
	"time"

	"spendwise-api/models"
)

// LoanCalculationInput carries everything needed to derive the expected
// return amount of a loan.
type LoanCalculationInput struct {
	Principal    float64
	InterestRate float64
	InterestType string
	LentDate     string
	ReturnDate   string
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalidField(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// MonthsBetween counts the calendar-month boundaries crossed between two
// dates. The day of month is ignored: lending on the 28th and getting the
// money back on the 2nd of the next month counts as one full month.
// Never negative.
func MonthsBetween(startDate, endDate string) (int, error) {
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return 0, err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return 0, err
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}
	return months, nil
}

// Accrue applies per-month interest to a principal. A non-positive rate or
// duration yields the principal unchanged, so expectedAmount >= principal
// always holds for valid input.
//
// simple:   P * (1 + r*t)
// compound: P * (1 + r)^t
func Accrue(principal, ratePctPerMonth float64, months int, interestType string) float64 {
	if ratePctPerMonth <= 0 || months <= 0 {
		return principal
	}

	rate := ratePctPerMonth / 100
	if interestType == models.InterestSimple {
		return principal * (1 + rate*float64(months))
	}
	return principal * math.Pow(1+rate, float64(months))
}

// ExpectedAmount derives the return amount of a loan over the whole
// lent-date to return-date range.
func ExpectedAmount(input LoanCalculationInput) (float64, error) {
	months, err := MonthsBetween(input.LentDate, input.ReturnDate)
	if err != nil {
		return 0, err
	}
	return Accrue(input.Principal, input.InterestRate, months, input.InterestType), nil
}

// PushReturnDate moves a date forward by whole calendar months. Day-of-month
// overflow rolls into the next month (time.AddDate normalization, the same
// behavior as the JS Date the data originated from): Jan 31 + 1 month lands
// on Mar 2 or Mar 3, never on Feb 28.
func PushReturnDate(date string, monthsToAdd int) (string, error) {
	t, err := parseDate("returnDate", date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, monthsToAdd, 0).Format(dateLayout), nil
}

// InterestPortion is the accrued interest of a loan.
func InterestPortion(principal, expectedAmount float64) float64 {
	return expectedAmount - principal
}
