package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	treasuryapp "github.com/sealshop/backend/internal/application/treasury"
	"github.com/sealshop/backend/internal/domain/treasury"
)

// TreasuryHandler handles treasury endpoints
type TreasuryHandler struct {
	BaseHandler
	treasury *treasuryapp.TreasuryService
}

// NewTreasuryHandler creates a new TreasuryHandler
func NewTreasuryHandler(svc *treasuryapp.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasury: svc}
}

// MovementRequest is the income/expense body
type MovementRequest struct {
	Account     string  `json:"account" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// RecordIncome posts a manual income row
func (h *TreasuryHandler) RecordIncome(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.treasury.RecordIncome(c.Request.Context(), tenantID,
		treasury.AccountID(req.Account), decimal.NewFromFloat(req.Amount), req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// RecordExpense posts a manual expense row
func (h *TreasuryHandler) RecordExpense(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tx, err := h.treasury.RecordExpense(c.Request.Context(), tenantID,
		treasury.AccountID(req.Account), decimal.NewFromFloat(req.Amount), req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// TransferRequest is the account-to-account move body
type TransferRequest struct {
	From        string  `json:"from" binding:"required"`
	To          string  `json:"to" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// Transfer moves money between accounts as a linked pair of rows
func (h *TreasuryHandler) Transfer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.treasury.Transfer(c.Request.Context(), tenantID,
		treasury.AccountID(req.From), treasury.AccountID(req.To),
		decimal.NewFromFloat(req.Amount), req.Description); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balances replays the ledger into per-account balances, deferred
// receivables included
func (h *TreasuryHandler) Balances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	balances, err := h.treasury.Balances(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"balances": balances,
		"total":    treasury.TotalAcrossAccounts(balances),
	})
}

// Transactions lists the ledger, optionally filtered by account
func (h *TreasuryHandler) Transactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	txs, err := h.treasury.ListTransactions(c.Request.Context(), tenantID,
		treasury.AccountID(c.Query("account")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// RegisterRoutes registers treasury routes
func (h *TreasuryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/treasury")
	{
		group.POST("/income", h.RecordIncome)
		group.POST("/expenses", h.RecordExpense)
		group.POST("/transfers", h.Transfer)
		group.GET("/balances", h.Balances)
		group.GET("/transactions", h.Transactions)
	}
}
