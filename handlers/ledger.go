package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spendwise-api/middleware"
	"spendwise-api/models"
	"spendwise-api/services"
)

type LedgerHandler struct {
	Ledgers *services.LedgerService
	WS      *WSHandler
}

func NewLedgerHandler(ledgers *services.LedgerService, ws *WSHandler) *LedgerHandler {
	return &LedgerHandler{Ledgers: ledgers, WS: ws}
}

func entryID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return 0, false
	}
	return id, true
}

// notify tells this user's other sessions to refresh.
func (h *LedgerHandler) notify(c *gin.Context, ledgerID, updateType string) {
	if h.WS != nil {
		h.WS.BroadcastUpdate(ledgerID, updateType, middleware.GetUserID(c))
	}
}

// GetLedger returns the migrated snapshot.
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	userID := middleware.GetUserID(c)

	ledgerID, state, err := h.Ledgers.GetState(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ledger_id": ledgerID,
		"state":     state,
	})
}

// GetSummary returns the day's budget picture. A `simulate` query parameter
// overlays a hypothetical expense without touching the ledger.
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var simulate *float64
	if raw := c.Query("simulate"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil || amount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "simulate must be a non-negative number"})
			return
		}
		simulate = &amount
	}

	summary, err := h.Ledgers.Summary(c.Request.Context(), userID, simulate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ============================================================================
// SETTINGS
// ============================================================================

func (h *LedgerHandler) UpdateSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.Ledgers.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ledgerID, _ := h.Ledgers.EnsureLedger(c.Request.Context(), userID)
	h.notify(c, ledgerID, "settings")
	c.JSON(http.StatusOK, state.Settings)
}

// ============================================================================
// INCOME ENTRIES
// ============================================================================

func (h *LedgerHandler) AddIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Ledgers.AddIncome(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ledgerID, _ := h.Ledgers.EnsureLedger(c.Request.Context(), userID)
	h.notify(c, ledgerID, "incomes")
	c.JSON(http.StatusCreated, created)
}

func (h *LedgerHandler) UpdateIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req models.IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledgers.UpdateIncome(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income updated"})
}

func (h *LedgerHandler) RemoveIncome(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.Ledgers.RemoveIncome(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income removed"})
}

// ============================================================================
// FIXED EXPENSES
// ============================================================================

func (h *LedgerHandler) AddFixedExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.FixedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Ledgers.AddFixedExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LedgerHandler) UpdateFixedExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req models.FixedExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledgers.UpdateFixedExpense(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fixed expense updated"})
}

func (h *LedgerHandler) RemoveFixedExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.Ledgers.RemoveFixedExpense(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fixed expense removed"})
}

// ============================================================================
// ONE-TIME PLANNED EXPENSES
// ============================================================================

func (h *LedgerHandler) AddOneTimePlanned(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.OneTimePlannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Ledgers.AddOneTimePlanned(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LedgerHandler) UpdateOneTimePlanned(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req models.OneTimePlannedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledgers.UpdateOneTimePlanned(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Planned expense updated"})
}

func (h *LedgerHandler) RemoveOneTimePlanned(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.Ledgers.RemoveOneTimePlanned(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Planned expense removed"})
}

// ============================================================================
// DAILY SPENDING
// ============================================================================

func (h *LedgerHandler) AddSpending(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.SpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Ledgers.AddSpending(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ledgerID, _ := h.Ledgers.EnsureLedger(c.Request.Context(), userID)
	h.notify(c, ledgerID, "spending")
	c.JSON(http.StatusCreated, created)
}

func (h *LedgerHandler) UpdateSpending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	var req models.SpendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Ledgers.UpdateSpending(c.Request.Context(), userID, id, req); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spending entry updated"})
}

func (h *LedgerHandler) RemoveSpending(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	if err := h.Ledgers.RemoveSpending(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Spending entry removed"})
}
