package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/sealshop/backend/internal/application/billing"
	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

// InvoiceHandler handles the invoice lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// SelectedMaterialRequest is one explicit shelf pick on a line
type SelectedMaterialRequest struct {
	UnitCode      string  `json:"unit_code" binding:"required"`
	InnerDiameter float64 `json:"inner_diameter" binding:"required,gt=0"`
	OuterDiameter float64 `json:"outer_diameter" binding:"required,gt=0"`
	SealsCount    int64   `json:"seals_count" binding:"required,min=1"`
}

// MaterialDetailsRequest describes the material a line should cut from
type MaterialDetailsRequest struct {
	MaterialType      string  `json:"material_type"`
	InnerDiameter     float64 `json:"inner_diameter"`
	OuterDiameter     float64 `json:"outer_diameter"`
	UnitCode          string  `json:"unit_code"`
	IsFinishedProduct bool    `json:"is_finished_product"`
}

// InvoiceLineRequest is one sold position in the create request
type InvoiceLineRequest struct {
	ProductType string  `json:"product_type" binding:"required,oneof=manufactured local"`
	Quantity    int64   `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`

	// manufactured
	SealType          string                    `json:"seal_type"`
	MaterialType      string                    `json:"material_type"`
	InnerDiameter     float64                   `json:"inner_diameter"`
	OuterDiameter     float64                   `json:"outer_diameter"`
	Height            float64                   `json:"height"`
	MaterialUsed      string                    `json:"material_used"`
	MaterialDetails   *MaterialDetailsRequest   `json:"material_details"`
	SelectedMaterials []SelectedMaterialRequest `json:"selected_materials"`

	// local
	ProductName   string  `json:"product_name"`
	Supplier      string  `json:"supplier"`
	PurchasePrice float64 `json:"purchase_price"`
}

// CreateInvoiceRequest is the invoice creation body
type CreateInvoiceRequest struct {
	CustomerID     string               `json:"customer_id"`
	CustomerName   string               `json:"customer_name"`
	Lines          []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount       *float64             `json:"discount"`
	DiscountType   string               `json:"discount_type" binding:"omitempty,oneof=amount percentage"`
	DiscountValue  *float64             `json:"discount_value"`
	PaymentMethod  string               `json:"payment_method" binding:"required"`
	Notes          string               `json:"notes"`
	SupervisorName string               `json:"supervisor_name"`
}

func buildLine(req InvoiceLineRequest) (*billing.InvoiceLine, error) {
	unitPrice := decimal.NewFromFloat(req.UnitPrice)

	if req.ProductType == string(billing.ProductLocal) {
		return billing.NewLocalLine(
			req.ProductName, req.Supplier,
			decimal.NewFromFloat(req.PurchasePrice), unitPrice, req.Quantity)
	}

	line, err := billing.NewManufacturedLine(
		inventory.SealType(req.SealType),
		inventory.MaterialType(req.MaterialType),
		valueobject.SealGeometry{
			InnerDiameter: decimal.NewFromFloat(req.InnerDiameter),
			OuterDiameter: decimal.NewFromFloat(req.OuterDiameter),
			Height:        decimal.NewFromFloat(req.Height),
		},
		req.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	line.MaterialUsed = req.MaterialUsed
	if req.MaterialDetails != nil {
		line.MaterialDetails = &inventory.MaterialDetails{
			MaterialType:      inventory.MaterialType(req.MaterialDetails.MaterialType),
			InnerDiameter:     decimal.NewFromFloat(req.MaterialDetails.InnerDiameter),
			OuterDiameter:     decimal.NewFromFloat(req.MaterialDetails.OuterDiameter),
			UnitCode:          req.MaterialDetails.UnitCode,
			IsFinishedProduct: req.MaterialDetails.IsFinishedProduct,
		}
	}
	for _, sm := range req.SelectedMaterials {
		line.SelectedMaterials = append(line.SelectedMaterials, inventory.SelectedMaterial{
			UnitCode:      sm.UnitCode,
			InnerDiameter: decimal.NewFromFloat(sm.InnerDiameter),
			OuterDiameter: decimal.NewFromFloat(sm.OuterDiameter),
			SealsCount:    sm.SealsCount,
		})
	}
	return line, nil
}

// Create creates an invoice, consuming materials and posting treasury income
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]billing.InvoiceLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		line, err := buildLine(lr)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		lines = append(lines, *line)
	}

	cmd := billingapp.CreateInvoiceCommand{
		TenantID:       tenantID,
		CustomerName:   req.CustomerName,
		Lines:          lines,
		DiscountType:   billing.DiscountType(req.DiscountType),
		PaymentMethod:  billing.PaymentMethod(req.PaymentMethod),
		Notes:          req.Notes,
		SupervisorName: req.SupervisorName,
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "invalid customer id")
			return
		}
		cmd.CustomerID = &customerID
	}
	if req.Discount != nil {
		d := decimal.NewFromFloat(*req.Discount)
		cmd.ExplicitDiscount = &d
	}
	if req.DiscountValue != nil {
		d := decimal.NewFromFloat(*req.DiscountValue)
		cmd.DiscountValue = &d
	}

	inv, err := h.invoices.CreateInvoice(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// Get returns one invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	inv, err := h.invoices.GetInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// List returns invoices newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	invoices, err := h.invoices.ListInvoices(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// PaymentRequest is a deferred invoice payment body
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"required"`
}

// RecordPayment settles part or all of a deferred invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.invoices.RecordPayment(c.Request.Context(), tenantID, invoiceID,
		decimal.NewFromFloat(req.Amount), billing.PaymentMethod(req.Method))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// EditInvoiceRequest is the invoice edit body. Omitted fields keep their
// current values.
type EditInvoiceRequest struct {
	EditedBy       string               `json:"edited_by" binding:"required"`
	ChangesSummary string               `json:"changes_summary"`
	Lines          []InvoiceLineRequest `json:"lines" binding:"omitempty,dive"`
	Discount       *float64             `json:"discount"`
	DiscountType   *string              `json:"discount_type"`
	DiscountValue  *float64             `json:"discount_value"`
	CustomerName   *string              `json:"customer_name"`
	Notes          *string              `json:"notes"`
	SupervisorName *string              `json:"supervisor_name"`
}

// Edit snapshots then updates an invoice
func (h *InvoiceHandler) Edit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	var req EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := billingapp.EditInvoiceCommand{
		TenantID:       tenantID,
		InvoiceID:      invoiceID,
		EditedBy:       req.EditedBy,
		ChangesSummary: req.ChangesSummary,
		CustomerName:   req.CustomerName,
		Notes:          req.Notes,
		SupervisorName: req.SupervisorName,
	}
	for _, lr := range req.Lines {
		line, err := buildLine(lr)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		cmd.Lines = append(cmd.Lines, *line)
	}
	if req.Discount != nil {
		d := decimal.NewFromFloat(*req.Discount)
		cmd.ExplicitDiscount = &d
	}
	if req.DiscountType != nil {
		dt := billing.DiscountType(*req.DiscountType)
		cmd.DiscountType = &dt
	}
	if req.DiscountValue != nil {
		d := decimal.NewFromFloat(*req.DiscountValue)
		cmd.DiscountValue = &d
	}

	inv, err := h.invoices.EditInvoice(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RevertRequest names the history entry to revert to
type RevertRequest struct {
	EntryID string `json:"entry_id" binding:"required,uuid"`
}

// Revert restores an invoice to a snapshot from its edit history
func (h *InvoiceHandler) Revert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	var req RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		h.BadRequest(c, "invalid entry id")
		return
	}

	inv, err := h.invoices.RevertInvoice(c.Request.Context(), tenantID, invoiceID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// CancelRequest is the cancellation body
type CancelRequest struct {
	DeletedBy string `json:"deleted_by"`
	Reason    string `json:"reason"`
}

// Cancel compensates an invoice and parks it in the deleted store
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.invoices.CancelInvoice(c.Request.Context(), tenantID, invoiceID, req.DeletedBy, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcome)
}

// Restore brings a cancelled invoice back as a record, without re-running
// stock or treasury effects
func (h *InvoiceHandler) Restore(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	inv, err := h.invoices.RestoreInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Purge drops a parked invoice for good
func (h *InvoiceHandler) Purge(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	if err := h.invoices.PurgeInvoice(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ChangeMethodRequest names the new payment method
type ChangeMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// ChangePaymentMethod moves an invoice between settlement methods and
// reposts treasury accordingly
func (h *InvoiceHandler) ChangePaymentMethod(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	var req ChangeMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inv, err := h.invoices.ChangePaymentMethod(c.Request.Context(), tenantID, invoiceID, billing.PaymentMethod(req.Method))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// History returns an invoice's edit history
func (h *InvoiceHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	entries, err := h.invoices.ListEditHistory(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Deleted lists cancelled invoices
func (h *InvoiceHandler) Deleted(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	deleted, err := h.invoices.ListDeletedInvoices(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deleted)
}

// RegisterRoutes registers invoice routes
// Enroll re-runs the daily work-order enrollment for an invoice
func (h *InvoiceHandler) Enroll(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	invoiceID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid invoice id")
		return
	}

	if err := h.invoices.EnrollInWorkOrder(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"enrolled": true})
}

func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/deleted", h.Deleted)
		invoices.GET("/:id", h.Get)
		invoices.PUT("/:id", h.Edit)
		invoices.DELETE("/:id", h.Cancel)
		invoices.POST("/:id/payments", h.RecordPayment)
		invoices.POST("/:id/revert", h.Revert)
		invoices.POST("/:id/restore", h.Restore)
		invoices.DELETE("/:id/purge", h.Purge)
		invoices.POST("/:id/payment-method", h.ChangePaymentMethod)
		invoices.POST("/:id/enroll", h.Enroll)
		invoices.GET("/:id/history", h.History)
	}
}
