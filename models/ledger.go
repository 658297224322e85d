package models

import "time"

// ============================================================================
// LEDGER SNAPSHOT MODEL
// ============================================================================
// The whole ledger is persisted as one JSON snapshot per user (encrypted
// JSONB blob with a version counter). Field names match the snapshot keys,
// so legacy exports load without translation.
// ============================================================================

// Savings goal periods.
const (
	GoalDaily   = "daily"
	GoalMonthly = "monthly"
	GoalYearly  = "yearly"
)

// Fixed expense frequencies.
const (
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// Interest types.
const (
	InterestSimple   = "simple"
	InterestCompound = "compound"
)

// Loan lifecycle states. Pending is the only state that accepts
// push-month, mark-paid and write-off; paid and written-off are terminal.
const (
	LoanPending    = "pending"
	LoanPaid       = "paid"
	LoanWrittenOff = "written-off"
)

type Settings struct {
	SavingsGoal     float64 `json:"savingsGoal"`
	SavingsGoalType string  `json:"savingsGoalType"`
	Currency        string  `json:"currency"`

	// Legacy single-income field from old snapshots. Consumed by the
	// schema migration, never written back.
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"`
}

// Income is a monthly-recurring income source. There is no date field:
// every entry counts toward every month by convention.
type Income struct {
	ID          int     `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type FixedExpense struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

// OneTimePlanned is counted only in the month it targets ("YYYY-MM").
type OneTimePlanned struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Month  string  `json:"month"`
}

// DailySpending is one entry in the append-only outflow ledger.
// Loan creation injects synthetic entries here.
type DailySpending struct {
	ID          int     `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Loan is a peer-to-peer loan. ExpenseID always points at the spending
// entry created alongside the loan; IncomeID is set when the loan is
// marked paid (nil until then — legacy snapshots used -1).
type Loan struct {
	ID                 int     `json:"id"`
	FriendName         string  `json:"friendName"`
	Principal          float64 `json:"principal"`
	InterestRate       float64 `json:"interestRate"`
	InterestType       string  `json:"interestType"`
	LentDate           string  `json:"lentDate"`
	ExpectedReturnDate string  `json:"expectedReturnDate"`
	ExpectedAmount     float64 `json:"expectedAmount"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes,omitempty"`
	ExpenseID          int     `json:"expenseId"`
	IncomeID           *int    `json:"incomeId,omitempty"`
}

// AppState is the aggregate root: every mutation is applied to a loaded
// snapshot as a whole and persisted back in one write, which is what keeps
// the loan/expense/income linkage atomic.
type AppState struct {
	Settings       Settings         `json:"settings"`
	Incomes        []Income         `json:"incomes"`
	FixedExpenses  []FixedExpense   `json:"fixedExpenses"`
	OneTimePlanned []OneTimePlanned `json:"oneTimePlanned"`
	DailySpending  []DailySpending  `json:"dailySpending"`
	Loans          []Loan           `json:"loans"`
}

// Ids are max(existing)+1 per collection: monotonic, never reused after a
// deletion, so collections may have gaps.

func (s *AppState) NextIncomeID() int {
	next := 1
	for _, it := range s.Incomes {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

func (s *AppState) NextFixedExpenseID() int {
	next := 1
	for _, it := range s.FixedExpenses {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

func (s *AppState) NextOneTimePlannedID() int {
	next := 1
	for _, it := range s.OneTimePlanned {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

func (s *AppState) NextSpendingID() int {
	next := 1
	for _, it := range s.DailySpending {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

func (s *AppState) NextLoanID() int {
	next := 1
	for _, it := range s.Loans {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

// ============================================================================
// LEDGER METADATA (Postgres rows, not part of the snapshot)
// ============================================================================

type Ledger struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LedgerData struct {
	ID        string    `json:"id"`
	LedgerID  string    `json:"ledger_id"`
	State     *AppState `json:"state"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================================
// CALCULATION RESULTS
// ============================================================================

// Summary is the per-day budget picture computed from a snapshot.
// DailyUsableAmount is fixed at the start of the day: spending logged today
// is excluded from the baseline, so the target does not shrink as you log.
type Summary struct {
	CurrentMonth      string  `json:"currentMonth"`
	Today             string  `json:"today"`
	DaysRemaining     int     `json:"daysRemaining"`
	MonthlyIncome     float64 `json:"monthlyIncome"`
	Commitment        float64 `json:"commitment"`
	SpentThisMonth    float64 `json:"spentThisMonth"`
	SpentToday        float64 `json:"spentToday"`
	DailyUsableAmount float64 `json:"dailyUsableAmount"`
	AvailableBudget   float64 `json:"availableBudget"`
	DailySavings      float64 `json:"dailySavings"`
	IsAtRisk          bool    `json:"isAtRisk"`
	Currency          string  `json:"currency"`

	// Set when a what-if amount was applied; DailyUsableAmount then holds
	// the projected value and BaseDailyUsableAmount the untouched one.
	Simulated             bool     `json:"simulated"`
	SimulatedAmount       *float64 `json:"simulatedAmount,omitempty"`
	BaseDailyUsableAmount float64  `json:"baseDailyUsableAmount"`
}

// LoanMutationResult is the response of every loan lifecycle operation:
// the full updated snapshot of the three affected collections plus any
// newly created ids.
type LoanMutationResult struct {
	Loans         []Loan          `json:"loans"`
	DailySpending []DailySpending `json:"dailySpending"`
	Incomes       []Income        `json:"incomes"`
	LoanID        *int            `json:"loanId,omitempty"`
	ExpenseID     *int            `json:"expenseId,omitempty"`
	IncomeID      *int            `json:"incomeId,omitempty"`
}

// ============================================================================
// REQUESTS
// ============================================================================

type UpdateSettingsRequest struct {
	SavingsGoal     float64 `json:"savingsGoal"`
	SavingsGoalType string  `json:"savingsGoalType" binding:"required"`
	Currency        string  `json:"currency" binding:"required"`
}

type IncomeRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description" binding:"required"`
}

type FixedExpenseRequest struct {
	Name      string  `json:"name" binding:"required"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency" binding:"required"`
}

type OneTimePlannedRequest struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount"`
	Month  string  `json:"month" binding:"required"`
}

type SpendingRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description" binding:"required"`
	// Optional on update; creation always stamps today.
	Date string `json:"date,omitempty"`
}

type CreateLoanRequest struct {
	FriendName         string  `json:"friendName" binding:"required"`
	Principal          float64 `json:"principal"`
	InterestRate       float64 `json:"interestRate"`
	InterestType       string  `json:"interestType" binding:"required"`
	ExpectedReturnDate string  `json:"expectedReturnDate" binding:"required"`
	Notes              string  `json:"notes,omitempty"`
}

type MarkPaidRequest struct {
	ActualAmount *float64 `json:"actualAmount,omitempty"`
}
