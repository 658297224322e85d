package services

import (
	"testing"
	"time"

	"spendwise-api/models"
)

func simulatorSummary() models.Summary {
	state := &models.AppState{
		Settings: models.Settings{SavingsGoal: 5000, SavingsGoalType: models.GoalMonthly},
		Incomes:  []models.Income{{ID: 1, Amount: 30000, Description: "Salary"}},
	}
	return ComputeSummary(state, fixedClock(2026, time.April, 1))
}

func TestSimulator_InactivePassesThrough(t *testing.T) {
	summary := simulatorSummary()

	var sim Simulator
	if got := sim.Project(summary); !almostEqual(got, summary.BaseDailyUsableAmount) {
		t.Errorf("inactive simulator changed DUA: %v, want %v", got, summary.BaseDailyUsableAmount)
	}

	// Active but no amount set: still a pass-through.
	sim.Toggle(true)
	if got := sim.Project(summary); !almostEqual(got, summary.BaseDailyUsableAmount) {
		t.Errorf("amount-less simulator changed DUA: %v, want %v", got, summary.BaseDailyUsableAmount)
	}
}

func TestSimulator_ProjectsHypotheticalSpend(t *testing.T) {
	summary := simulatorSummary()

	var sim Simulator
	sim.Toggle(true)
	amount := 3000.0
	sim.SetAmount(&amount)

	want := (30000.0 - 5000 - 3000) / 30
	if got := sim.Project(summary); !almostEqual(got, want) {
		t.Errorf("simulated DUA = %v, want %v", got, want)
	}

	// The ledger-backed summary is untouched.
	if !almostEqual(summary.DailyUsableAmount, 25000.0/30) {
		t.Errorf("base summary mutated: %v", summary.DailyUsableAmount)
	}
}

func TestSimulator_DeactivatingClearsAmount(t *testing.T) {
	summary := simulatorSummary()

	var sim Simulator
	sim.Toggle(true)
	amount := 3000.0
	sim.SetAmount(&amount)
	sim.Toggle(false)
	sim.Toggle(true)

	if got := sim.Project(summary); !almostEqual(got, summary.BaseDailyUsableAmount) {
		t.Errorf("amount survived deactivation: DUA = %v, want %v", got, summary.BaseDailyUsableAmount)
	}
}

func TestApplySimulation(t *testing.T) {
	summary := ApplySimulation(simulatorSummary(), 3000)

	if !summary.Simulated {
		t.Error("Simulated flag not set")
	}
	if summary.SimulatedAmount == nil || *summary.SimulatedAmount != 3000 {
		t.Error("SimulatedAmount not recorded")
	}
	want := (30000.0 - 5000 - 3000) / 30
	if !almostEqual(summary.DailyUsableAmount, want) {
		t.Errorf("projected DUA = %v, want %v", summary.DailyUsableAmount, want)
	}
	if !almostEqual(summary.BaseDailyUsableAmount, 25000.0/30) {
		t.Errorf("base DUA lost: %v", summary.BaseDailyUsableAmount)
	}
}
