package services

import "spendwise-api/models"

// Simulator is the what-if overlay: a projection of the daily usable amount
// as if a hypothetical expense were logged today. It never touches the
// ledger and is never persisted.
type Simulator struct {
	active bool
	amount *float64
}

func (s *Simulator) Active() bool { return s.active }

// Toggle activates or deactivates the overlay. Deactivating clears the
// hypothetical amount.
func (s *Simulator) Toggle(active bool) {
	s.active = active
	if !active {
		s.amount = nil
	}
}

func (s *Simulator) SetAmount(amount *float64) {
	s.amount = amount
}

// Project returns the daily usable amount to display: the simulated value
// when the overlay is active with an amount set, the base value otherwise.
func (s *Simulator) Project(summary models.Summary) float64 {
	if !s.active || s.amount == nil {
		return summary.BaseDailyUsableAmount
	}
	return SimulatedDUA(summary, *s.amount)
}

// SimulatedDUA recomputes the daily usable amount with the hypothetical
// expense added to the start-of-day baseline. Today's real spending stays
// excluded, exactly as in the base calculation.
func SimulatedDUA(summary models.Summary, amount float64) float64 {
	spentBeforeToday := summary.SpentThisMonth - summary.SpentToday + amount
	return DailyUsableAmount(summary.MonthlyIncome, summary.Commitment, spentBeforeToday, summary.DaysRemaining)
}

// ApplySimulation stamps a summary with the projected value, keeping the
// base figure alongside it.
func ApplySimulation(summary models.Summary, amount float64) models.Summary {
	summary.Simulated = true
	summary.SimulatedAmount = &amount
	summary.DailyUsableAmount = SimulatedDUA(summary, amount)
	return summary
}
