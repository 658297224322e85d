package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"spendwise-api/handlers"
	"spendwise-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB, ledgers *services.LedgerService) {
	authHandler := &handlers.AuthHandler{DB: db, Ledgers: ledgers}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
}

// SetupLedgerRoutes sets up the protected ledger, summary and loan routes.
func SetupLedgerRoutes(rg *gin.RouterGroup, ledgers *services.LedgerService, ws *handlers.WSHandler) {
	h := handlers.NewLedgerHandler(ledgers, ws)
	loanHandler := handlers.NewLoanHandler(ledgers, ws)

	rg.GET("/ledger", h.GetLedger)
	rg.GET("/ledger/summary", h.GetSummary)
	rg.PUT("/ledger/settings", h.UpdateSettings)

	rg.POST("/ledger/incomes", h.AddIncome)
	rg.PUT("/ledger/incomes/:id", h.UpdateIncome)
	rg.DELETE("/ledger/incomes/:id", h.RemoveIncome)

	rg.POST("/ledger/fixed-expenses", h.AddFixedExpense)
	rg.PUT("/ledger/fixed-expenses/:id", h.UpdateFixedExpense)
	rg.DELETE("/ledger/fixed-expenses/:id", h.RemoveFixedExpense)

	rg.POST("/ledger/planned", h.AddOneTimePlanned)
	rg.PUT("/ledger/planned/:id", h.UpdateOneTimePlanned)
	rg.DELETE("/ledger/planned/:id", h.RemoveOneTimePlanned)

	rg.POST("/ledger/spending", h.AddSpending)
	rg.PUT("/ledger/spending/:id", h.UpdateSpending)
	rg.DELETE("/ledger/spending/:id", h.RemoveSpending)

	rg.POST("/ledger/loans", loanHandler.CreateLoan)
	rg.POST("/ledger/loans/:id/push-month", loanHandler.PushMonth)
	rg.POST("/ledger/loans/:id/mark-paid", loanHandler.MarkPaid)
	rg.POST("/ledger/loans/:id/write-off", loanHandler.WriteOff)
	rg.DELETE("/ledger/loans/:id", loanHandler.DeleteLoan)
}

// SetupUserRoutes sets up protected user account routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}
