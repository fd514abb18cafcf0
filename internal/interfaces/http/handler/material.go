package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/sealshop/backend/internal/application/inventory"
	"github.com/sealshop/backend/internal/domain/inventory"
)

// MaterialHandler handles raw material intake and stock listing endpoints
type MaterialHandler struct {
	BaseHandler
	intake *inventoryapp.IntakeService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(intake *inventoryapp.IntakeService) *MaterialHandler {
	return &MaterialHandler{intake: intake}
}

// ReceiveMaterialRequest is the intake request body
type ReceiveMaterialRequest struct {
	MaterialType  string  `json:"material_type" binding:"required,material"`
	InnerDiameter float64 `json:"inner_diameter" binding:"required,gt=0"`
	OuterDiameter float64 `json:"outer_diameter" binding:"required,gt=0"`
	Height        float64 `json:"height" binding:"required,gt=0"`
	PiecesCount   int     `json:"pieces_count" binding:"omitempty,min=1"`
	CostPerMM     float64 `json:"cost_per_mm" binding:"omitempty,gte=0"`
}

func batchResponse(b *inventory.RawMaterialBatch) gin.H {
	return gin.H{
		"id":             b.GetID().String(),
		"material_type":  b.MaterialType,
		"inner_diameter": b.InnerDiameter,
		"outer_diameter": b.OuterDiameter,
		"height":         b.Height,
		"pieces_count":   b.PiecesCount,
		"unit_code":      b.UnitCode,
		"is_low_stock":   b.IsLowStock(),
		"is_usable":      b.IsUsable(),
	}
}

// Receive registers a delivered cylinder and assigns its unit code
func (h *MaterialHandler) Receive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req ReceiveMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pieces := req.PiecesCount
	if pieces == 0 {
		pieces = 1
	}

	batch, err := h.intake.ReceiveMaterial(c.Request.Context(), inventoryapp.ReceiveMaterialCommand{
		TenantID:      tenantID,
		MaterialType:  inventory.MaterialType(req.MaterialType),
		InnerDiameter: decimal.NewFromFloat(req.InnerDiameter),
		OuterDiameter: decimal.NewFromFloat(req.OuterDiameter),
		Height:        decimal.NewFromFloat(req.Height),
		PiecesCount:   pieces,
		CostPerMM:     decimal.NewFromFloat(req.CostPerMM),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batchResponse(batch))
}

// PurchasePiecesRequest is the bucket replenishment request body
type PurchasePiecesRequest struct {
	MaterialType  string  `json:"material_type" binding:"required,material"`
	InnerDiameter float64 `json:"inner_diameter" binding:"required,gt=0"`
	OuterDiameter float64 `json:"outer_diameter" binding:"required,gt=0"`
	Pieces        int     `json:"pieces" binding:"required,min=1"`
	ReferenceID   string  `json:"reference_id"`
}

// PurchasePieces records whole cylinders bought into a bucket
func (h *MaterialHandler) PurchasePieces(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req PurchasePiecesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bucket, err := h.intake.PurchasePieces(c.Request.Context(), inventoryapp.PurchasePiecesCommand{
		TenantID:      tenantID,
		MaterialType:  inventory.MaterialType(req.MaterialType),
		InnerDiameter: decimal.NewFromFloat(req.InnerDiameter),
		OuterDiameter: decimal.NewFromFloat(req.OuterDiameter),
		Pieces:        req.Pieces,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bucket)
}

// List returns all batches in shop display order
func (h *MaterialHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	batches, err := h.intake.ListMaterials(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(batches))
	for _, b := range batches {
		out = append(out, batchResponse(b))
	}
	h.Success(c, out)
}

// LowStock returns buckets at or below their reorder threshold
func (h *MaterialHandler) LowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	buckets, err := h.intake.ListLowStockBuckets(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, buckets)
}

// Ledger returns one bucket's transaction ledger, replay-verified
func (h *MaterialHandler) Ledger(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	bucketID, err := parseID(c)
	if err != nil {
		h.BadRequest(c, "invalid bucket id")
		return
	}

	txs, err := h.intake.BucketLedger(c.Request.Context(), tenantID, bucketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txs)
}

// RegisterRoutes registers material routes
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	materials := rg.Group("/materials")
	{
		materials.POST("", h.Receive)
		materials.GET("", h.List)
		materials.POST("/pieces", h.PurchasePieces)
		materials.GET("/low-stock", h.LowStock)
		materials.GET("/buckets/:id/ledger", h.Ledger)
	}
}
