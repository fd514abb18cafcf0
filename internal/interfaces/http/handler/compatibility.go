package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/sealshop/backend/internal/application/inventory"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/matching"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

// CompatibilityHandler answers which materials can cut a requested seal
type CompatibilityHandler struct {
	BaseHandler
	matcher *inventoryapp.MatchingService
}

// NewCompatibilityHandler creates a new CompatibilityHandler
func NewCompatibilityHandler(matcher *inventoryapp.MatchingService) *CompatibilityHandler {
	return &CompatibilityHandler{matcher: matcher}
}

// CompatibilityRequest is the check request body
type CompatibilityRequest struct {
	SealType      string  `json:"seal_type" binding:"required"`
	MaterialType  string  `json:"material_type"`
	InnerDiameter float64 `json:"inner_diameter" binding:"required,gt=0"`
	OuterDiameter float64 `json:"outer_diameter" binding:"required,gt=0"`
	Height        float64 `json:"height" binding:"required,gt=0"`
	Quantity      int64   `json:"quantity" binding:"omitempty,min=1"`
}

// Check scores the stock against a requested seal profile
func (h *CompatibilityHandler) Check(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req CompatibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	result, err := h.matcher.CheckCompatibility(c.Request.Context(), tenantID, matching.Query{
		SealType:     inventory.SealType(req.SealType),
		MaterialType: inventory.MaterialType(req.MaterialType),
		Geometry: valueobject.SealGeometry{
			InnerDiameter: decimal.NewFromFloat(req.InnerDiameter),
			OuterDiameter: decimal.NewFromFloat(req.OuterDiameter),
			Height:        decimal.NewFromFloat(req.Height),
		},
		Quantity: quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterRoutes registers compatibility routes
func (h *CompatibilityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compatibility/check", h.Check)
}
