package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"spendwise-api/models"
)

func loanTestState() *models.AppState {
	return &models.AppState{
		Settings: models.Settings{SavingsGoal: 5000, SavingsGoalType: models.GoalMonthly, Currency: "THB"},
		Incomes: []models.Income{
			{ID: 1, Amount: 30000, Description: "Salary"},
		},
		FixedExpenses:  []models.FixedExpense{},
		OneTimePlanned: []models.OneTimePlanned{},
		DailySpending: []models.DailySpending{
			{ID: 1, Amount: 250, Description: "Groceries", Date: "2026-03-28"},
		},
		Loans: []models.Loan{},
	}
}

func loanTestManager() *LoanManager {
	return NewLoanManager(fixedClock(2026, time.April, 1))
}

func createRequest() models.CreateLoanRequest {
	return models.CreateLoanRequest{
		FriendName:         "Arthit",
		Principal:          1000,
		InterestRate:       10,
		InterestType:       models.InterestSimple,
		ExpectedReturnDate: "2026-06-15", // 2 month boundaries from Apr 1
	}
}

func TestCreateLoan(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, err := manager.Create(state, createRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loan.Status != models.LoanPending {
		t.Errorf("status = %q, want pending", loan.Status)
	}
	if loan.LentDate != "2026-04-01" {
		t.Errorf("lentDate = %q, want today", loan.LentDate)
	}
	if !almostEqual(loan.ExpectedAmount, 1200) {
		t.Errorf("expectedAmount = %v, want 1200", loan.ExpectedAmount)
	}
	if loan.IncomeID != nil {
		t.Error("new loan must have no linked income")
	}

	// The lent principal lands in daily spending immediately.
	if len(state.DailySpending) != 2 {
		t.Fatalf("dailySpending has %d entries, want 2", len(state.DailySpending))
	}
	expense := state.DailySpending[1]
	if expense.ID != loan.ExpenseID {
		t.Errorf("loan.expenseId = %d, linked entry id = %d", loan.ExpenseID, expense.ID)
	}
	if !almostEqual(expense.Amount, 1000) {
		t.Errorf("expense amount = %v, want the principal", expense.Amount)
	}
	if expense.Date != "2026-04-01" {
		t.Errorf("expense date = %q, want today", expense.Date)
	}
	if expense.Description != "💸 Lent to Arthit" {
		t.Errorf("expense description = %q", expense.Description)
	}
}

func TestCreateLoan_ZeroRateEqualsPrincipal(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	req := createRequest()
	req.InterestRate = 0
	loan, err := manager.Create(state, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(loan.ExpectedAmount, loan.Principal) {
		t.Errorf("expectedAmount = %v, want principal %v", loan.ExpectedAmount, loan.Principal)
	}
}

func TestCreateLoan_Validation(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	tests := []struct {
		name   string
		modify func(*models.CreateLoanRequest)
		field  string
	}{
		{"empty friend name", func(r *models.CreateLoanRequest) { r.FriendName = "" }, "friendName"},
		{"negative principal", func(r *models.CreateLoanRequest) { r.Principal = -1 }, "principal"},
		{"negative rate", func(r *models.CreateLoanRequest) { r.InterestRate = -1 }, "interestRate"},
		{"bad interest type", func(r *models.CreateLoanRequest) { r.InterestType = "weekly" }, "interestType"},
		{"bad return date", func(r *models.CreateLoanRequest) { r.ExpectedReturnDate = "June 2026" }, "expectedReturnDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.modify(&req)

			_, err := manager.Create(state, req)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("error names field %q, want %q", validationErr.Field, tt.field)
			}
			if len(state.Loans) != 0 || len(state.DailySpending) != 1 {
				t.Error("rejected create must not touch the ledger")
			}
		})
	}
}

func TestCreateThenRemove_RoundTrip(t *testing.T) {
	state := loanTestState()
	want := loanTestState()
	manager := loanTestManager()

	loan, err := manager.Create(state, createRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.Remove(state, loan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(state, want) {
		t.Errorf("create+remove did not restore the ledger:\n got %+v\nwant %+v", state, want)
	}
}

func TestMarkPaid(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	paid, err := manager.MarkPaid(state, loan.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if paid.Status != models.LoanPaid {
		t.Errorf("status = %q, want paid", paid.Status)
	}
	if paid.IncomeID == nil {
		t.Fatal("paid loan must link an income entry")
	}

	// Default repayment is the expected amount, recorded as income.
	if len(state.Incomes) != 2 {
		t.Fatalf("incomes has %d entries, want 2", len(state.Incomes))
	}
	income := state.Incomes[1]
	if income.ID != *paid.IncomeID {
		t.Errorf("loan.incomeId = %d, entry id = %d", *paid.IncomeID, income.ID)
	}
	if !almostEqual(income.Amount, 1200) {
		t.Errorf("income amount = %v, want 1200", income.Amount)
	}
	if income.Description != "💰 Arthit paid back (Apr 2026)" {
		t.Errorf("income description = %q", income.Description)
	}
}

func TestMarkPaid_ActualAmountCorrectsLedger(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	actual := 1100.0
	paid, err := manager.MarkPaid(state, loan.ID, &actual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(paid.ExpectedAmount, 1100) {
		t.Errorf("expectedAmount = %v, want corrected to 1100", paid.ExpectedAmount)
	}
	if !almostEqual(state.Incomes[1].Amount, 1100) {
		t.Errorf("income amount = %v, want 1100", state.Incomes[1].Amount)
	}
}

func TestMarkPaid_SecondCallRejectedAndStateUnchanged(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	if _, err := manager.MarkPaid(state, loan.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := *state
	afterIncomes := append([]models.Income(nil), state.Incomes...)

	if _, err := manager.MarkPaid(state, loan.ID, nil); !errors.Is(err, ErrLoanNotPending) {
		t.Fatalf("expected ErrLoanNotPending, got %v", err)
	}
	if !reflect.DeepEqual(*state, after) || !reflect.DeepEqual(state.Incomes, afterIncomes) {
		t.Error("rejected mark-paid mutated the ledger")
	}
}

func TestPushMonth_ReDerivesFromLentDate(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	req := createRequest()
	req.InterestType = models.InterestCompound
	loan, _ := manager.Create(state, req)

	if _, err := manager.PushMonth(state, loan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pushed, err := manager.PushMonth(state, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pushed.ExpectedReturnDate != "2026-08-15" {
		t.Errorf("return date = %q, want 2026-08-15", pushed.ExpectedReturnDate)
	}

	// Two pushes must agree exactly with one direct computation over the
	// same net range: 2026-04-01 .. 2026-08-15 is 4 months.
	direct := Accrue(1000, 10, 4, models.InterestCompound)
	if pushed.ExpectedAmount != direct {
		t.Errorf("pushed twice = %v, direct = %v", pushed.ExpectedAmount, direct)
	}
}

func TestPushMonth_NonPendingRejected(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	manager.WriteOff(state, loan.ID)

	if _, err := manager.PushMonth(state, loan.ID); !errors.Is(err, ErrLoanNotPending) {
		t.Errorf("expected ErrLoanNotPending, got %v", err)
	}
}

func TestWriteOff(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	incomesBefore := len(state.Incomes)
	spendingBefore := len(state.DailySpending)

	written, err := manager.WriteOff(state, loan.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if written.Status != models.LoanWrittenOff {
		t.Errorf("status = %q, want written-off", written.Status)
	}
	// The lent money stays a sunk cost: no ledger mutation at all.
	if len(state.Incomes) != incomesBefore || len(state.DailySpending) != spendingBefore {
		t.Error("write-off must not touch incomes or spending")
	}
}

func TestRemove_PaidLoanCascadesIncome(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())
	manager.MarkPaid(state, loan.ID, nil)

	if err := manager.Remove(state, loan.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(state.Loans) != 0 {
		t.Error("loan not removed")
	}
	if len(state.DailySpending) != 1 {
		t.Error("linked spending entry not removed")
	}
	if len(state.Incomes) != 1 {
		t.Error("linked income entry not removed")
	}
}

func TestRemove_ToleratesMissingLinkedEntries(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	loan, _ := manager.Create(state, createRequest())

	// Simulate manual repair: the linked expense is already gone.
	state.DailySpending = state.DailySpending[:1]

	if err := manager.Remove(state, loan.ID); err != nil {
		t.Fatalf("cascade over missing entry must not fail: %v", err)
	}
	if len(state.Loans) != 0 {
		t.Error("loan not removed")
	}
}

func TestRemove_UnknownLoan(t *testing.T) {
	state := loanTestState()
	manager := loanTestManager()

	if err := manager.Remove(state, 42); !errors.Is(err, ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestIDGeneration_GapsAndMonotonicity(t *testing.T) {
	state := loanTestState()
	state.DailySpending = []models.DailySpending{
		{ID: 1, Amount: 10, Date: "2026-04-01"},
		{ID: 7, Amount: 20, Date: "2026-04-01"}, // gap from earlier deletions
	}

	manager := loanTestManager()
	loan, err := manager.Create(state, createRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loan.ExpenseID != 8 {
		t.Errorf("expenseId = %d, want max+1 = 8", loan.ExpenseID)
	}
	if loan.ID != 1 {
		t.Errorf("loanId = %d, want 1 in an empty collection", loan.ID)
	}
}
