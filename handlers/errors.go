package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise-api/services"
	"spendwise-api/utils"
)

// respondServiceError maps engine errors onto HTTP statuses: invalid input
// is the caller's fault (400), an unknown loan is 404, operating on a
// non-pending loan is a precondition failure (409).
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, services.ErrLoanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
	case errors.Is(err, services.ErrLoanNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Loan is not pending"})
	default:
		utils.Error("ledger operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
