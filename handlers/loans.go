package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise-api/middleware"
	"spendwise-api/models"
	"spendwise-api/services"
)

// Loan lifecycle endpoints. Every operation returns the full updated
// loans/dailySpending/incomes collections plus any newly created ids, so
// the client never has to stitch partial updates together.
type LoanHandler struct {
	Ledgers *services.LedgerService
	WS      *WSHandler
}

func NewLoanHandler(ledgers *services.LedgerService, ws *WSHandler) *LoanHandler {
	return &LoanHandler{Ledgers: ledgers, WS: ws}
}

func (h *LoanHandler) notify(c *gin.Context, updateType string) {
	if h.WS == nil {
		return
	}
	userID := middleware.GetUserID(c)
	if ledgerID, err := h.Ledgers.EnsureLedger(c.Request.Context(), userID); err == nil {
		h.WS.BroadcastUpdate(ledgerID, updateType, userID)
	}
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Ledgers.CreateLoan(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notify(c, "loans")
	c.JSON(http.StatusCreated, result)
}

func (h *LoanHandler) PushMonth(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	result, err := h.Ledgers.PushLoanMonth(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notify(c, "loans")
	c.JSON(http.StatusOK, result)
}

func (h *LoanHandler) MarkPaid(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	// Body is optional: without an actual amount the expected amount is used.
	var req models.MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.Ledgers.MarkLoanPaid(c.Request.Context(), userID, id, req.ActualAmount)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notify(c, "loans")
	c.JSON(http.StatusOK, result)
}

func (h *LoanHandler) WriteOff(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	result, err := h.Ledgers.WriteOffLoan(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notify(c, "loans")
	c.JSON(http.StatusOK, result)
}

func (h *LoanHandler) DeleteLoan(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := entryID(c)
	if !ok {
		return
	}

	result, err := h.Ledgers.RemoveLoan(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notify(c, "loans")
	c.JSON(http.StatusOK, result)
}
