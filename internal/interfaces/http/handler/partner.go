package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	partnerapp "github.com/sealshop/backend/internal/application/partner"
	"github.com/sealshop/backend/internal/domain/treasury"
)

// PartnerHandler handles customer and supplier endpoints
type PartnerHandler struct {
	BaseHandler
	partners *partnerapp.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners *partnerapp.PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// CustomerRequest is the customer create/update body
type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// RegisterCustomer creates a customer, rejecting duplicate names or phones
func (h *PartnerHandler) RegisterCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partners.RegisterCustomer(c.Request.Context(), tenantID, req.Name, req.Phone, req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// UpdateCustomer updates a customer's contact details
func (h *PartnerHandler) UpdateCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	customerID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.partners.UpdateCustomer(c.Request.Context(), tenantID, customerID, req.Name, req.Phone, req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ListCustomers returns customers ordered by name
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	customers, err := h.partners.ListCustomers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// DeleteCustomer removes a customer
func (h *PartnerHandler) DeleteCustomer(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	customerID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid customer id")
		return
	}

	if err := h.partners.DeleteCustomer(c.Request.Context(), tenantID, customerID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SupplierRequest is the supplier create body
type SupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// RegisterSupplier creates a supplier
func (h *PartnerHandler) RegisterSupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partners.RegisterSupplier(c.Request.Context(), tenantID, req.Name, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// ListSuppliers returns suppliers with their running balances
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	suppliers, err := h.partners.ListSuppliers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// PaySupplierRequest is the supplier payment body
type PaySupplierRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Account     string  `json:"account" binding:"required"`
	Description string  `json:"description"`
}

// PaySupplier settles part of a supplier balance and posts the expense
func (h *PartnerHandler) PaySupplier(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	supplierID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid supplier id")
		return
	}

	var req PaySupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.partners.PaySupplier(c.Request.Context(), tenantID, supplierID,
		decimal.NewFromFloat(req.Amount), treasury.AccountID(req.Account), req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// SupplierLedger returns a supplier's transaction history
func (h *PartnerHandler) SupplierLedger(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	supplierID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid supplier id")
		return
	}

	txs, err := h.partners.SupplierLedger(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// RegisterRoutes registers customer and supplier routes
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.RegisterCustomer)
		customers.GET("", h.ListCustomers)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.RegisterSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.POST("/:id/payments", h.PaySupplier)
		suppliers.GET("/:id/ledger", h.SupplierLedger)
	}
}
