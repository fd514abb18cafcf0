package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sealshop/backend/internal/domain/billing"
	"github.com/sealshop/backend/internal/domain/shared"
)

// WorkOrderService maintains the daily shop-floor order and its enrolled
// invoice copies.
type WorkOrderService struct {
	workOrders billing.WorkOrderRepository
	logger     *zap.Logger
}

// NewWorkOrderService creates a WorkOrderService.
func NewWorkOrderService(workOrders billing.WorkOrderRepository, logger *zap.Logger) *WorkOrderService {
	return &WorkOrderService{workOrders: workOrders, logger: logger}
}

// EnrollInvoice adds the invoice to the day's order, creating the order on
// first enrollment of the day.
func (s *WorkOrderService) EnrollInvoice(ctx context.Context, inv *billing.Invoice) error {
	workDate := billing.WorkDateOf(inv.Date)
	wo, err := s.workOrders.FindDaily(ctx, inv.TenantID, workDate)
	if errors.Is(err, shared.ErrNotFound) {
		wo = billing.NewDailyWorkOrder(inv.TenantID, workDate, inv.SupervisorName)
		err = nil
	}
	if err != nil {
		return err
	}

	wo.Enroll(buildWorkOrderCopy(inv), inv.SupervisorName)
	return s.workOrders.Save(ctx, wo)
}

// WithdrawInvoice pulls an invoice copy out of every order holding it.
func (s *WorkOrderService) WithdrawInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	orders, err := s.workOrders.List(ctx, shared.Filter{TenantID: tenantID})
	if err != nil {
		return err
	}
	for _, wo := range orders {
		if !wo.Withdraw(invoiceID) {
			continue
		}
		if err := s.workOrders.Save(ctx, wo); err != nil {
			return err
		}
	}
	return nil
}

// GetDaily returns the order for a calendar day.
func (s *WorkOrderService) GetDaily(ctx context.Context, tenantID uuid.UUID, day time.Time) (*billing.WorkOrder, error) {
	return s.workOrders.FindDaily(ctx, tenantID, billing.WorkDateOf(day))
}

// List returns work orders, newest first.
func (s *WorkOrderService) List(ctx context.Context, tenantID uuid.UUID) ([]*billing.WorkOrder, error) {
	return s.workOrders.List(ctx, shared.Filter{TenantID: tenantID, OrderBy: "work_date", Desc: true})
}

// buildWorkOrderCopy denormalizes an invoice into the shape the order sheet
// shows, with the material strings the cutters read.
func buildWorkOrderCopy(inv *billing.Invoice) billing.WorkOrderInvoice {
	items := make([]billing.WorkOrderItem, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		items = append(items, buildWorkOrderItem(line))
	}
	return billing.WorkOrderInvoice{
		InvoiceID:     inv.GetID(),
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		TotalAmount:   inv.TotalAmount,
		Items:         items,
		EnrolledAt:    time.Now().UTC(),
	}
}

func buildWorkOrderItem(line billing.InvoiceLine) billing.WorkOrderItem {
	if line.ProductType == billing.ProductLocal {
		return billing.WorkOrderItem{
			Description:      fmt.Sprintf("%s (%s)", line.ProductName, line.Supplier),
			Quantity:         line.Quantity,
			WorkOrderDisplay: fmt.Sprintf("%s x%d", line.ProductName, line.Quantity),
		}
	}

	geometry := fmt.Sprintf("%sx%sx%s",
		line.Geometry.InnerDiameter, line.Geometry.OuterDiameter, line.Geometry.Height)
	item := billing.WorkOrderItem{
		Description:      fmt.Sprintf("%s %s %s", line.SealType, line.MaterialType, geometry),
		Quantity:         line.Quantity,
		MaterialInfo:     fmt.Sprintf("%s %s", line.MaterialType, geometry),
		WorkOrderDisplay: fmt.Sprintf("%s %s x%d", line.SealType, geometry, line.Quantity),
	}

	switch {
	case len(line.SelectedMaterials) > 0:
		codes := make([]string, 0, len(line.SelectedMaterials))
		cuts := make([]string, 0, len(line.SelectedMaterials))
		for _, sel := range line.SelectedMaterials {
			codes = append(codes, sel.UnitCode)
			cuts = append(cuts, fmt.Sprintf("%d seals from %s", sel.SealsCount, sel.UnitCode))
		}
		item.UnitCodeDisplay = strings.Join(codes, ", ")
		item.MaterialConsumption = strings.Join(cuts, "; ")
	case line.MaterialDetails != nil && line.MaterialDetails.UnitCode != "":
		item.UnitCodeDisplay = line.MaterialDetails.UnitCode
		item.MaterialConsumption = fmt.Sprintf("%d seals from %s", line.Quantity, line.MaterialDetails.UnitCode)
	case line.MaterialUsed != "":
		item.UnitCodeDisplay = line.MaterialUsed
		item.MaterialConsumption = fmt.Sprintf("%d seals from %s", line.Quantity, line.MaterialUsed)
	}
	return item
}
