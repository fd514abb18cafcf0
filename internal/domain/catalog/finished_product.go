package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

// FinishedProduct is a ready-made seal held in stock, sold as-is without
// cutting raw material.
type FinishedProduct struct {
	shared.TenantAggregateRoot
	SealType     inventory.SealType       `gorm:"type:varchar(10);not null;index"`
	MaterialType inventory.MaterialType   `gorm:"type:varchar(10);not null"`
	Geometry     valueobject.SealGeometry `gorm:"embedded"`
	Quantity     int                      `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal          `gorm:"type:decimal(19,2);not null"`
}

func (FinishedProduct) TableName() string { return "finished_products" }

// NewFinishedProduct creates a finished product stock line.
func NewFinishedProduct(
	tenantID uuid.UUID,
	sealType inventory.SealType,
	materialType inventory.MaterialType,
	geometry valueobject.SealGeometry,
	quantity int,
	unitPrice decimal.Decimal,
) (*FinishedProduct, error) {
	if err := geometry.Validate(); err != nil {
		return nil, shared.WrapDomainError("INVALID_DIMENSIONS", "invalid seal geometry", err)
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}
	return &FinishedProduct{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SealType:            sealType,
		MaterialType:        materialType,
		Geometry:            geometry,
		Quantity:            quantity,
		UnitPrice:           unitPrice,
	}, nil
}

// Sell removes quantity from stock.
func (p *FinishedProduct) Sell(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "sold quantity must be positive")
	}
	if quantity > p.Quantity {
		return shared.WrapDomainError("INSUFFICIENT_STOCK", "not enough finished products", shared.ErrInsufficientStock)
	}
	p.Quantity -= quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Restock adds quantity to stock.
func (p *FinishedProduct) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "restocked quantity must be positive")
	}
	p.Quantity += quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}
