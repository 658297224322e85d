package services

import (
	"strings"

	"spendwise-api/models"
)

// MonthlyCommitment is the money already spoken for in a month: the savings
// goal normalized to a monthly figure, recurring fixed expenses (yearly ones
// at a twelfth), and one-time planned expenses targeting exactly that month.
// Deterministic: depends only on its inputs.
func MonthlyCommitment(
	savingsGoal float64,
	savingsGoalType string,
	fixedExpenses []models.FixedExpense,
	oneTimePlanned []models.OneTimePlanned,
	targetMonth string,
) float64 {
	monthlySavings := savingsGoal
	switch savingsGoalType {
	case models.GoalDaily:
		monthlySavings = savingsGoal * 30
	case models.GoalYearly:
		monthlySavings = savingsGoal / 12
	}

	fixedTotal := 0.0
	for _, expense := range fixedExpenses {
		if expense.Frequency == models.FrequencyYearly {
			fixedTotal += expense.Amount / 12
		} else {
			fixedTotal += expense.Amount
		}
	}

	oneTimeTotal := 0.0
	for _, expense := range oneTimePlanned {
		if expense.Month == targetMonth {
			oneTimeTotal += expense.Amount
		}
	}

	return monthlySavings + fixedTotal + oneTimeTotal
}

// DailyUsableAmount is the amount safe to spend per remaining day of the
// month. A negative result is meaningful ("at risk") and is not clamped.
// spentBeforeToday excludes spending already logged today, so the baseline
// stays fixed for the whole day.
func DailyUsableAmount(income, commitment, spentBeforeToday float64, daysRemaining int) float64 {
	if daysRemaining <= 0 {
		return 0
	}
	return (income - commitment - spentBeforeToday) / float64(daysRemaining)
}

// SpentThisMonth sums the spending entries dated inside a month ("YYYY-MM").
func SpentThisMonth(entries []models.DailySpending, month string) float64 {
	total := 0.0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Date, month) {
			total += entry.Amount
		}
	}
	return total
}

// SpentToday sums the spending entries dated exactly today ("YYYY-MM-DD").
func SpentToday(entries []models.DailySpending, today string) float64 {
	total := 0.0
	for _, entry := range entries {
		if entry.Date == today {
			total += entry.Amount
		}
	}
	return total
}

// TotalIncome sums all recurring income sources.
func TotalIncome(incomes []models.Income) float64 {
	total := 0.0
	for _, income := range incomes {
		total += income.Amount
	}
	return total
}

// DailySavingsAmount converts the savings goal to a per-day figure.
func DailySavingsAmount(savingsGoal float64, savingsGoalType string) float64 {
	switch savingsGoalType {
	case models.GoalDaily:
		return savingsGoal
	case models.GoalMonthly:
		return savingsGoal / 30
	default:
		return savingsGoal / 365
	}
}

// ComputeSummary bundles every calculation the dashboard needs for one day.
func ComputeSummary(state *models.AppState, clock Clock) models.Summary {
	currentMonth := CurrentMonth(clock)
	today := Today(clock)
	daysRemaining := DaysRemainingInMonth(clock)

	monthlyIncome := TotalIncome(state.Incomes)
	commitment := MonthlyCommitment(
		state.Settings.SavingsGoal,
		state.Settings.SavingsGoalType,
		state.FixedExpenses,
		state.OneTimePlanned,
		currentMonth,
	)
	spentThisMonth := SpentThisMonth(state.DailySpending, currentMonth)
	spentToday := SpentToday(state.DailySpending, today)

	baseDUA := DailyUsableAmount(monthlyIncome, commitment, spentThisMonth-spentToday, daysRemaining)

	return models.Summary{
		CurrentMonth:          currentMonth,
		Today:                 today,
		DaysRemaining:         daysRemaining,
		MonthlyIncome:         monthlyIncome,
		Commitment:            commitment,
		SpentThisMonth:        spentThisMonth,
		SpentToday:            spentToday,
		DailyUsableAmount:     baseDUA,
		BaseDailyUsableAmount: baseDUA,
		AvailableBudget:       monthlyIncome - commitment - spentThisMonth,
		DailySavings:          DailySavingsAmount(state.Settings.SavingsGoal, state.Settings.SavingsGoalType),
		IsAtRisk:              baseDUA <= 0,
		Currency:              state.Settings.Currency,
	}
}
