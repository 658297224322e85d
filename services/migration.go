package services

import "spendwise-api/models"

// MigrateState upgrades legacy snapshots in place. It runs on every load
// and is idempotent: applying it to already-migrated data changes nothing.
//
// Legacy shapes handled:
//   - settings.monthlyIncome (single value) instead of an incomes array
//   - missing savingsGoalType
//   - missing collections
//   - incomeId -1 as a "no income yet" sentinel on loans
func MigrateState(state *models.AppState) {
	if len(state.Incomes) == 0 && state.Settings.MonthlyIncome != nil {
		state.Incomes = []models.Income{
			{ID: 1, Amount: *state.Settings.MonthlyIncome, Description: "Primary Income"},
		}
	}
	state.Settings.MonthlyIncome = nil

	if state.Settings.SavingsGoalType == "" {
		state.Settings.SavingsGoalType = models.GoalMonthly
	}

	if state.Incomes == nil {
		state.Incomes = []models.Income{}
	}
	if state.FixedExpenses == nil {
		state.FixedExpenses = []models.FixedExpense{}
	}
	if state.OneTimePlanned == nil {
		state.OneTimePlanned = []models.OneTimePlanned{}
	}
	if state.DailySpending == nil {
		state.DailySpending = []models.DailySpending{}
	}
	if state.Loans == nil {
		state.Loans = []models.Loan{}
	}

	for i := range state.Loans {
		if state.Loans[i].IncomeID != nil && *state.Loans[i].IncomeID <= 0 {
			state.Loans[i].IncomeID = nil
		}
	}
}

// InitialState seeds a brand-new ledger.
func InitialState() *models.AppState {
	return &models.AppState{
		Settings: models.Settings{
			SavingsGoal:     5000,
			SavingsGoalType: models.GoalMonthly,
			Currency:        "THB",
		},
		Incomes:        []models.Income{},
		FixedExpenses:  []models.FixedExpense{},
		OneTimePlanned: []models.OneTimePlanned{},
		DailySpending:  []models.DailySpending{},
		Loans:          []models.Loan{},
	}
}
