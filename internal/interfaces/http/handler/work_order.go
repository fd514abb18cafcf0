package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/sealshop/backend/internal/application/billing"
)

// WorkOrderHandler serves the shop-floor order sheets
type WorkOrderHandler struct {
	BaseHandler
	workOrders *billingapp.WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(workOrders *billingapp.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{workOrders: workOrders}
}

// Daily returns the daily order for a date, today when none is given
func (h *WorkOrderHandler) Daily(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
	}

	wo, err := h.workOrders.GetDaily(c.Request.Context(), tenantID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// List returns all work orders newest day first
func (h *WorkOrderHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orders, err := h.workOrders.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// RegisterRoutes registers work order routes
func (h *WorkOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	workOrders := rg.Group("/work-orders")
	{
		workOrders.GET("", h.List)
		workOrders.GET("/daily", h.Daily)
	}
}
