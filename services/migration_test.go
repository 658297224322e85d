package services

import (
	"reflect"
	"testing"

	"spendwise-api/models"
)

func TestMigrateState_LegacyMonthlyIncome(t *testing.T) {
	legacyIncome := 25000.0
	state := &models.AppState{
		Settings: models.Settings{
			MonthlyIncome:   &legacyIncome,
			SavingsGoal:     5000,
			SavingsGoalType: models.GoalMonthly,
		},
	}

	MigrateState(state)

	want := []models.Income{{ID: 1, Amount: 25000, Description: "Primary Income"}}
	if !reflect.DeepEqual(state.Incomes, want) {
		t.Errorf("incomes = %+v, want %+v", state.Incomes, want)
	}
	if state.Settings.MonthlyIncome != nil {
		t.Error("legacy monthlyIncome field not cleared")
	}
}

func TestMigrateState_MonthlyIncomeIgnoredWhenIncomesExist(t *testing.T) {
	legacyIncome := 25000.0
	state := &models.AppState{
		Settings: models.Settings{MonthlyIncome: &legacyIncome},
		Incomes:  []models.Income{{ID: 3, Amount: 40000, Description: "Salary"}},
	}

	MigrateState(state)

	if len(state.Incomes) != 1 || state.Incomes[0].Amount != 40000 {
		t.Errorf("migration must not overwrite existing incomes, got %+v", state.Incomes)
	}
	if state.Settings.MonthlyIncome != nil {
		t.Error("legacy monthlyIncome field not cleared")
	}
}

func TestMigrateState_DefaultsAndCollections(t *testing.T) {
	state := &models.AppState{}

	MigrateState(state)

	if state.Settings.SavingsGoalType != models.GoalMonthly {
		t.Errorf("savingsGoalType = %q, want monthly default", state.Settings.SavingsGoalType)
	}
	if state.Incomes == nil || state.FixedExpenses == nil || state.OneTimePlanned == nil ||
		state.DailySpending == nil || state.Loans == nil {
		t.Error("collections must never stay nil after migration")
	}
}

func TestMigrateState_IncomeIDSentinel(t *testing.T) {
	sentinel := -1
	valid := 4
	state := &models.AppState{
		Loans: []models.Loan{
			{ID: 1, Status: models.LoanPending, IncomeID: &sentinel},
			{ID: 2, Status: models.LoanPaid, IncomeID: &valid},
		},
	}

	MigrateState(state)

	if state.Loans[0].IncomeID != nil {
		t.Error("sentinel incomeId not cleared")
	}
	if state.Loans[1].IncomeID == nil || *state.Loans[1].IncomeID != 4 {
		t.Error("valid incomeId must survive migration")
	}
}

func TestMigrateState_Idempotent(t *testing.T) {
	legacyIncome := 12000.0
	sentinel := 0
	state := &models.AppState{
		Settings: models.Settings{MonthlyIncome: &legacyIncome},
		Loans:    []models.Loan{{ID: 1, IncomeID: &sentinel}},
	}

	MigrateState(state)
	once := *state
	onceLoans := append([]models.Loan(nil), state.Loans...)

	MigrateState(state)

	if !reflect.DeepEqual(*state, once) || !reflect.DeepEqual(state.Loans, onceLoans) {
		t.Error("second migration changed an already-migrated snapshot")
	}
}
