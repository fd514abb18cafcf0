package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/shared"
)

// LocalProduct is a trade good bought from a supplier and resold without
// manufacturing. TotalSold accumulates across invoices.
type LocalProduct struct {
	shared.TenantAggregateRoot
	Name          string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_local_product_name"`
	Supplier      string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_local_product_name"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TotalSold     int             `gorm:"not null;default:0"`
}

func (LocalProduct) TableName() string { return "local_products" }

// NewLocalProduct creates a local product.
func NewLocalProduct(tenantID uuid.UUID, name, supplier string, purchasePrice, sellingPrice decimal.Decimal) (*LocalProduct, error) {
	if name == "" {
		return nil, shared.NewDomainError("MISSING_NAME", "product name is required")
	}
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "prices cannot be negative")
	}
	return &LocalProduct{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Supplier:            supplier,
		PurchasePrice:       purchasePrice,
		SellingPrice:        sellingPrice,
	}, nil
}

// RecordSale bumps the sold counter.
func (p *LocalProduct) RecordSale(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "sold quantity must be positive")
	}
	p.TotalSold += quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Margin returns the per-unit profit.
func (p *LocalProduct) Margin() decimal.Decimal {
	return p.SellingPrice.Sub(p.PurchasePrice)
}
