package services

import (
	"fmt"

	"spendwise-api/models"
)

// LoanManager applies loan lifecycle transitions to an in-memory snapshot.
// Every method mutates the aggregate as a whole; the caller serializes
// transitions and persists the snapshot in a single write, which is what
// makes the paired loan/expense/income mutations atomic to readers.
//
// Lifecycle: pending -> paid | written-off (both terminal); a loan may be
// removed from any state. Push-month, mark-paid and write-off reject
// non-pending loans with ErrLoanNotPending.
type LoanManager struct {
	clock Clock
}

func NewLoanManager(clock Clock) *LoanManager {
	return &LoanManager{clock: clock}
}

func validInterestType(t string) bool {
	return t == models.InterestSimple || t == models.InterestCompound
}

func (m *LoanManager) findPending(state *models.AppState, loanID int) (*models.Loan, error) {
	for i := range state.Loans {
		if state.Loans[i].ID == loanID {
			if state.Loans[i].Status != models.LoanPending {
				return nil, ErrLoanNotPending
			}
			return &state.Loans[i], nil
		}
	}
	return nil, ErrLoanNotFound
}

// Create lends money to a friend: it appends a synthetic spending entry for
// the principal dated today and the pending loan that owns it. The expected
// return amount accrues from today to the expected return date.
func (m *LoanManager) Create(state *models.AppState, req models.CreateLoanRequest) (*models.Loan, error) {
	if req.FriendName == "" {
		return nil, invalidField("friendName", "must not be empty")
	}
	if req.Principal < 0 {
		return nil, invalidField("principal", "must not be negative")
	}
	if req.InterestRate < 0 {
		return nil, invalidField("interestRate", "must not be negative")
	}
	if !validInterestType(req.InterestType) {
		return nil, invalidField("interestType", "must be simple or compound")
	}

	today := Today(m.clock)
	expectedAmount, err := ExpectedAmount(LoanCalculationInput{
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		InterestType: req.InterestType,
		LentDate:     today,
		ReturnDate:   req.ExpectedReturnDate,
	})
	if err != nil {
		return nil, invalidField("expectedReturnDate", "must be a date in YYYY-MM-DD format")
	}

	expenseID := state.NextSpendingID()
	state.DailySpending = append(state.DailySpending, models.DailySpending{
		ID:          expenseID,
		Amount:      req.Principal,
		Description: fmt.Sprintf("💸 Lent to %s", req.FriendName),
		Date:        today,
	})

	loan := models.Loan{
		ID:                 state.NextLoanID(),
		FriendName:         req.FriendName,
		Principal:          req.Principal,
		InterestRate:       req.InterestRate,
		InterestType:       req.InterestType,
		LentDate:           today,
		ExpectedReturnDate: req.ExpectedReturnDate,
		ExpectedAmount:     expectedAmount,
		Status:             models.LoanPending,
		Notes:              req.Notes,
		ExpenseID:          expenseID,
	}
	state.Loans = append(state.Loans, loan)

	return &state.Loans[len(state.Loans)-1], nil
}

// PushMonth extends a pending loan's expected return date by one calendar
// month. The expected amount is re-derived over the whole original lent-date
// to new return-date range, never incremented, so repeated pushes agree
// with a single direct computation for the same net range.
func (m *LoanManager) PushMonth(state *models.AppState, loanID int) (*models.Loan, error) {
	loan, err := m.findPending(state, loanID)
	if err != nil {
		return nil, err
	}

	newReturnDate, err := PushReturnDate(loan.ExpectedReturnDate, 1)
	if err != nil {
		return nil, err
	}
	expectedAmount, err := ExpectedAmount(LoanCalculationInput{
		Principal:    loan.Principal,
		InterestRate: loan.InterestRate,
		InterestType: loan.InterestType,
		LentDate:     loan.LentDate,
		ReturnDate:   newReturnDate,
	})
	if err != nil {
		return nil, err
	}

	loan.ExpectedReturnDate = newReturnDate
	loan.ExpectedAmount = expectedAmount
	return loan, nil
}

// MarkPaid records the repayment of a pending loan: it appends an income
// entry for the amount actually received (the expected amount when none is
// given), corrects the loan's expected amount to match, and links the new
// income to the loan in the same transition.
func (m *LoanManager) MarkPaid(state *models.AppState, loanID int, actualAmount *float64) (*models.Loan, error) {
	loan, err := m.findPending(state, loanID)
	if err != nil {
		return nil, err
	}

	paidAmount := loan.ExpectedAmount
	if actualAmount != nil {
		if *actualAmount < 0 {
			return nil, invalidField("actualAmount", "must not be negative")
		}
		paidAmount = *actualAmount
	}

	incomeID := state.NextIncomeID()
	monthYear := m.clock.Now().Format("Jan 2006")
	state.Incomes = append(state.Incomes, models.Income{
		ID:          incomeID,
		Amount:      paidAmount,
		Description: fmt.Sprintf("💰 %s paid back (%s)", loan.FriendName, monthYear),
	})

	loan.Status = models.LoanPaid
	loan.ExpectedAmount = paidAmount
	loan.IncomeID = &incomeID
	return loan, nil
}

// WriteOff marks a pending loan as unrecoverable. The spending entry stays
// as a sunk cost and no income is created.
func (m *LoanManager) WriteOff(state *models.AppState, loanID int) (*models.Loan, error) {
	loan, err := m.findPending(state, loanID)
	if err != nil {
		return nil, err
	}
	loan.Status = models.LoanWrittenOff
	return loan, nil
}

// Remove deletes a loan in any state together with its linked spending
// entry and, when the loan was paid, its linked income. Already-missing
// linked entries are skipped, so a repeated remove or manually repaired
// snapshot never fails the cascade.
func (m *LoanManager) Remove(state *models.AppState, loanID int) error {
	idx := -1
	for i := range state.Loans {
		if state.Loans[i].ID == loanID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrLoanNotFound
	}
	loan := state.Loans[idx]

	spending := state.DailySpending[:0]
	for _, entry := range state.DailySpending {
		if entry.ID != loan.ExpenseID {
			spending = append(spending, entry)
		}
	}
	state.DailySpending = spending

	if loan.IncomeID != nil {
		incomes := state.Incomes[:0]
		for _, entry := range state.Incomes {
			if entry.ID != *loan.IncomeID {
				incomes = append(incomes, entry)
			}
		}
		state.Incomes = incomes
	}

	state.Loans = append(state.Loans[:idx], state.Loans[idx+1:]...)
	return nil
}
