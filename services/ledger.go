package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"spendwise-api/models"
	"spendwise-api/utils"

	"github.com/google/uuid"
)

// encryptedBlob wraps the ciphertext so the JSONB column accepts it.
type encryptedBlob struct {
	Encrypted string `json:"encrypted"`
}

const summaryCacheTTL = time.Minute

// LedgerService owns the durable snapshot: it loads a user's whole ledger,
// applies one pure transition to it, and persists the result as a single
// versioned write. A per-ledger mutex serializes mutations, so the engine
// is never asked to compute a transition against a superseded snapshot and
// the loan create/remove cascades stay atomic to readers.
type LedgerService struct {
	db    *sql.DB
	clock Clock
	loans *LoanManager
	cache SummaryCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedgerService(db *sql.DB, clock Clock, cache SummaryCache) *LedgerService {
	return &LedgerService{
		db:    db,
		clock: clock,
		loans: NewLoanManager(clock),
		cache: cache,
		locks: map[string]*sync.Mutex{},
	}
}

func (s *LedgerService) ledgerLock(ledgerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[ledgerID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ledgerID] = lock
	}
	return lock
}

func summaryKey(ledgerID string) string {
	return "spendwise:summary:" + ledgerID
}

// ============================================================================
// SNAPSHOT STORAGE
// ============================================================================

// EnsureLedger returns the id of the user's ledger, creating the ledger row
// and its seed snapshot on first use. Ledger and snapshot are inserted in
// one transaction.
func (s *LedgerService) EnsureLedger(ctx context.Context, userID string) (string, error) {
	var ledgerID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM ledgers WHERE owner_id = $1`, userID).Scan(&ledgerID)
	if err == nil {
		return ledgerID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	ledgerID = uuid.New().String()
	blob, err := encodeState(InitialState())
	if err != nil {
		return "", err
	}

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledgers (id, owner_id, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
		`, ledgerID, userID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_data (id, ledger_id, data, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
		`, uuid.New().String(), ledgerID, blob)
		return err
	})
	if err != nil {
		return "", err
	}
	return ledgerID, nil
}

func encodeState(state *models.AppState) ([]byte, error) {
	plain, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	ciphertext, err := utils.Encrypt(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt snapshot: %w", err)
	}
	return json.Marshal(encryptedBlob{Encrypted: ciphertext})
}

func decodeState(raw []byte) (*models.AppState, error) {
	var state models.AppState

	// Current snapshots are encrypted; fall back to plaintext for legacy
	// rows written before encryption was introduced.
	var wrapper encryptedBlob
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Encrypted != "" {
		plain, err := utils.Decrypt(wrapper.Encrypted)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
		}
		raw = plain
	}

	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	MigrateState(&state)
	return &state, nil
}

func (s *LedgerService) loadState(ctx context.Context, ledgerID string) (*models.AppState, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM ledger_data
		WHERE ledger_id = $1
		ORDER BY version DESC
		LIMIT 1
	`, ledgerID).Scan(&raw)
	if err == sql.ErrNoRows {
		return InitialState(), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeState(raw)
}

func (s *LedgerService) persist(ctx context.Context, ledgerID string, state *models.AppState) error {
	blob, err := encodeState(state)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE ledger_data
		SET data = $1, version = version + 1, updated_at = NOW()
		WHERE ledger_id = $2
	`, blob, ledgerID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO ledger_data (id, ledger_id, data, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
		`, uuid.New().String(), ledgerID, blob); err != nil {
			return err
		}
	}

	if err := s.cache.Delete(ctx, summaryKey(ledgerID)); err != nil {
		utils.Warn("failed to drop summary cache for ledger %s: %v", ledgerID, err)
	}
	return nil
}

// GetState loads the migrated snapshot for a user.
func (s *LedgerService) GetState(ctx context.Context, userID string) (string, *models.AppState, error) {
	ledgerID, err := s.EnsureLedger(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	state, err := s.loadState(ctx, ledgerID)
	if err != nil {
		return "", nil, err
	}
	return ledgerID, state, nil
}

// mutate runs one serialized transition: load the current snapshot, apply
// fn, persist the result. fn failing leaves the stored snapshot untouched.
func (s *LedgerService) mutate(ctx context.Context, userID string, fn func(*models.AppState) error) (string, *models.AppState, error) {
	ledgerID, err := s.EnsureLedger(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	lock := s.ledgerLock(ledgerID)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.loadState(ctx, ledgerID)
	if err != nil {
		return "", nil, err
	}
	if err := fn(state); err != nil {
		return "", nil, err
	}
	if err := s.persist(ctx, ledgerID, state); err != nil {
		return "", nil, err
	}
	return ledgerID, state, nil
}

// ============================================================================
// SUMMARY
// ============================================================================

// Summary computes the day's budget picture, optionally overlaid with a
// what-if amount. Only the base (non-simulated) summary is cached.
func (s *LedgerService) Summary(ctx context.Context, userID string, simulate *float64) (models.Summary, error) {
	ledgerID, err := s.EnsureLedger(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}

	if simulate == nil {
		if cached, ok := s.cache.Get(ctx, summaryKey(ledgerID)); ok {
			var summary models.Summary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil && summary.Today == Today(s.clock) {
				return summary, nil
			}
		}
	}

	state, err := s.loadState(ctx, ledgerID)
	if err != nil {
		return models.Summary{}, err
	}
	summary := ComputeSummary(state, s.clock)

	if simulate != nil {
		return ApplySimulation(summary, *simulate), nil
	}

	if encoded, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, summaryKey(ledgerID), string(encoded), summaryCacheTTL); err != nil {
			utils.Warn("failed to cache summary for ledger %s: %v", ledgerID, err)
		}
	}
	return summary, nil
}

// ============================================================================
// SETTINGS
// ============================================================================

func validGoalType(t string) bool {
	return t == models.GoalDaily || t == models.GoalMonthly || t == models.GoalYearly
}

func validMonth(field, value string) error {
	if _, err := time.Parse(monthLayout, value); err != nil {
		return invalidField(field, "must be a month in YYYY-MM format")
	}
	return nil
}

func (s *LedgerService) UpdateSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.AppState, error) {
	if req.SavingsGoal < 0 {
		return nil, invalidField("savingsGoal", "must not be negative")
	}
	if !validGoalType(req.SavingsGoalType) {
		return nil, invalidField("savingsGoalType", "must be daily, monthly or yearly")
	}

	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		state.Settings = models.Settings{
			SavingsGoal:     req.SavingsGoal,
			SavingsGoalType: req.SavingsGoalType,
			Currency:        req.Currency,
		}
		return nil
	})
	return state, err
}

// ============================================================================
// INCOME ENTRIES
// ============================================================================

func validIncome(req models.IncomeRequest) error {
	if req.Amount < 0 {
		return invalidField("amount", "must not be negative")
	}
	if req.Description == "" {
		return invalidField("description", "must not be empty")
	}
	return nil
}

func (s *LedgerService) AddIncome(ctx context.Context, userID string, req models.IncomeRequest) (*models.Income, error) {
	if err := validIncome(req); err != nil {
		return nil, err
	}

	var created models.Income
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		created = models.Income{
			ID:          state.NextIncomeID(),
			Amount:      req.Amount,
			Description: req.Description,
		}
		state.Incomes = append(state.Incomes, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, userID string, id int, req models.IncomeRequest) error {
	if err := validIncome(req); err != nil {
		return err
	}
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		for i := range state.Incomes {
			if state.Incomes[i].ID == id {
				state.Incomes[i].Amount = req.Amount
				state.Incomes[i].Description = req.Description
			}
		}
		return nil
	})
	return err
}

func (s *LedgerService) RemoveIncome(ctx context.Context, userID string, id int) error {
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		kept := state.Incomes[:0]
		for _, entry := range state.Incomes {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		state.Incomes = kept
		return nil
	})
	return err
}

// ============================================================================
// FIXED EXPENSES
// ============================================================================

func validFrequency(f string) bool {
	return f == models.FrequencyMonthly || f == models.FrequencyYearly
}

func validFixedExpense(req models.FixedExpenseRequest) error {
	if req.Name == "" {
		return invalidField("name", "must not be empty")
	}
	if req.Amount < 0 {
		return invalidField("amount", "must not be negative")
	}
	if !validFrequency(req.Frequency) {
		return invalidField("frequency", "must be monthly or yearly")
	}
	return nil
}

func (s *LedgerService) AddFixedExpense(ctx context.Context, userID string, req models.FixedExpenseRequest) (*models.FixedExpense, error) {
	if err := validFixedExpense(req); err != nil {
		return nil, err
	}

	var created models.FixedExpense
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		created = models.FixedExpense{
			ID:        state.NextFixedExpenseID(),
			Name:      req.Name,
			Amount:    req.Amount,
			Frequency: req.Frequency,
		}
		state.FixedExpenses = append(state.FixedExpenses, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LedgerService) UpdateFixedExpense(ctx context.Context, userID string, id int, req models.FixedExpenseRequest) error {
	if err := validFixedExpense(req); err != nil {
		return err
	}
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		for i := range state.FixedExpenses {
			if state.FixedExpenses[i].ID == id {
				state.FixedExpenses[i] = models.FixedExpense{
					ID:        id,
					Name:      req.Name,
					Amount:    req.Amount,
					Frequency: req.Frequency,
				}
			}
		}
		return nil
	})
	return err
}

func (s *LedgerService) RemoveFixedExpense(ctx context.Context, userID string, id int) error {
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		kept := state.FixedExpenses[:0]
		for _, entry := range state.FixedExpenses {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		state.FixedExpenses = kept
		return nil
	})
	return err
}

// ============================================================================
// ONE-TIME PLANNED EXPENSES
// ============================================================================

func validOneTimePlanned(req models.OneTimePlannedRequest) error {
	if req.Name == "" {
		return invalidField("name", "must not be empty")
	}
	if req.Amount < 0 {
		return invalidField("amount", "must not be negative")
	}
	return validMonth("month", req.Month)
}

func (s *LedgerService) AddOneTimePlanned(ctx context.Context, userID string, req models.OneTimePlannedRequest) (*models.OneTimePlanned, error) {
	if err := validOneTimePlanned(req); err != nil {
		return nil, err
	}

	var created models.OneTimePlanned
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		created = models.OneTimePlanned{
			ID:     state.NextOneTimePlannedID(),
			Name:   req.Name,
			Amount: req.Amount,
			Month:  req.Month,
		}
		state.OneTimePlanned = append(state.OneTimePlanned, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LedgerService) UpdateOneTimePlanned(ctx context.Context, userID string, id int, req models.OneTimePlannedRequest) error {
	if err := validOneTimePlanned(req); err != nil {
		return err
	}
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		for i := range state.OneTimePlanned {
			if state.OneTimePlanned[i].ID == id {
				state.OneTimePlanned[i] = models.OneTimePlanned{
					ID:     id,
					Name:   req.Name,
					Amount: req.Amount,
					Month:  req.Month,
				}
			}
		}
		return nil
	})
	return err
}

func (s *LedgerService) RemoveOneTimePlanned(ctx context.Context, userID string, id int) error {
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		kept := state.OneTimePlanned[:0]
		for _, entry := range state.OneTimePlanned {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		state.OneTimePlanned = kept
		return nil
	})
	return err
}

// ============================================================================
// DAILY SPENDING
// ============================================================================

func validSpending(req models.SpendingRequest) error {
	if req.Amount < 0 {
		return invalidField("amount", "must not be negative")
	}
	if req.Description == "" {
		return invalidField("description", "must not be empty")
	}
	if req.Date != "" {
		if _, err := parseDate("date", req.Date); err != nil {
			return err
		}
	}
	return nil
}

// AddSpending appends an outflow entry stamped with today's date.
func (s *LedgerService) AddSpending(ctx context.Context, userID string, req models.SpendingRequest) (*models.DailySpending, error) {
	if err := validSpending(req); err != nil {
		return nil, err
	}

	var created models.DailySpending
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		created = models.DailySpending{
			ID:          state.NextSpendingID(),
			Amount:      req.Amount,
			Description: req.Description,
			Date:        Today(s.clock),
		}
		state.DailySpending = append(state.DailySpending, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *LedgerService) UpdateSpending(ctx context.Context, userID string, id int, req models.SpendingRequest) error {
	if err := validSpending(req); err != nil {
		return err
	}
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		for i := range state.DailySpending {
			if state.DailySpending[i].ID == id {
				state.DailySpending[i].Amount = req.Amount
				state.DailySpending[i].Description = req.Description
				if req.Date != "" {
					state.DailySpending[i].Date = req.Date
				}
			}
		}
		return nil
	})
	return err
}

func (s *LedgerService) RemoveSpending(ctx context.Context, userID string, id int) error {
	_, _, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		kept := state.DailySpending[:0]
		for _, entry := range state.DailySpending {
			if entry.ID != id {
				kept = append(kept, entry)
			}
		}
		state.DailySpending = kept
		return nil
	})
	return err
}

// ============================================================================
// LOAN LIFECYCLE
// ============================================================================

func loanResult(state *models.AppState, loan *models.Loan) models.LoanMutationResult {
	result := models.LoanMutationResult{
		Loans:         state.Loans,
		DailySpending: state.DailySpending,
		Incomes:       state.Incomes,
	}
	if loan != nil {
		result.LoanID = &loan.ID
		result.ExpenseID = &loan.ExpenseID
		result.IncomeID = loan.IncomeID
	}
	return result
}

func (s *LedgerService) CreateLoan(ctx context.Context, userID string, req models.CreateLoanRequest) (models.LoanMutationResult, error) {
	var created *models.Loan
	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		loan, err := s.loans.Create(state, req)
		if err != nil {
			return err
		}
		created = loan
		return nil
	})
	if err != nil {
		return models.LoanMutationResult{}, err
	}
	return loanResult(state, created), nil
}

func (s *LedgerService) PushLoanMonth(ctx context.Context, userID string, loanID int) (models.LoanMutationResult, error) {
	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		_, err := s.loans.PushMonth(state, loanID)
		return err
	})
	if err != nil {
		return models.LoanMutationResult{}, err
	}
	return loanResult(state, nil), nil
}

func (s *LedgerService) MarkLoanPaid(ctx context.Context, userID string, loanID int, actualAmount *float64) (models.LoanMutationResult, error) {
	var paid *models.Loan
	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		loan, err := s.loans.MarkPaid(state, loanID, actualAmount)
		if err != nil {
			return err
		}
		paid = loan
		return nil
	})
	if err != nil {
		return models.LoanMutationResult{}, err
	}
	return loanResult(state, paid), nil
}

func (s *LedgerService) WriteOffLoan(ctx context.Context, userID string, loanID int) (models.LoanMutationResult, error) {
	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		_, err := s.loans.WriteOff(state, loanID)
		return err
	})
	if err != nil {
		return models.LoanMutationResult{}, err
	}
	return loanResult(state, nil), nil
}

func (s *LedgerService) RemoveLoan(ctx context.Context, userID string, loanID int) (models.LoanMutationResult, error) {
	_, state, err := s.mutate(ctx, userID, func(state *models.AppState) error {
		return s.loans.Remove(state, loanID)
	})
	if err != nil {
		return models.LoanMutationResult{}, err
	}
	return loanResult(state, nil), nil
}
