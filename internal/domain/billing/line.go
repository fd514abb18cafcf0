package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

// ProductType discriminates the two invoice line shapes.
type ProductType string

const (
	ProductManufactured ProductType = "manufactured"
	ProductLocal        ProductType = "local"
)

// InvoiceLine is one sold position. Manufactured lines carry the seal
// profile and up to one material hint; local lines carry the trade-good
// snapshot taken at sale time.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	ProductType ProductType `gorm:"type:varchar(16);not null"`

	// manufactured fields
	SealType          inventory.SealType           `gorm:"type:varchar(10)"`
	MaterialType      inventory.MaterialType       `gorm:"type:varchar(10)"`
	Geometry          valueobject.SealGeometry     `gorm:"embedded;embeddedPrefix:seal_"`
	MaterialUsed      string                       `gorm:"type:varchar(20)"`
	MaterialDetails   *inventory.MaterialDetails   `gorm:"serializer:json"`
	SelectedMaterials []inventory.SelectedMaterial `gorm:"serializer:json"`

	// local fields
	ProductName   string          `gorm:"type:varchar(255)"`
	Supplier      string          `gorm:"type:varchar(255)"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(19,2)"`

	Quantity   int64           `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(19,2);not null"`
}

// NewManufacturedLine creates a line for seals cut to order.
func NewManufacturedLine(
	sealType inventory.SealType,
	materialType inventory.MaterialType,
	geometry valueobject.SealGeometry,
	quantity int64,
	unitPrice decimal.Decimal,
) (*InvoiceLine, error) {
	if err := geometry.Validate(); err != nil {
		return nil, shared.WrapDomainError("INVALID_DIMENSIONS", "invalid seal geometry", err)
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}
	return &InvoiceLine{
		BaseEntity:   shared.NewBaseEntity(),
		ProductType:  ProductManufactured,
		SealType:     sealType,
		MaterialType: materialType,
		Geometry:     geometry,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// NewLocalLine creates a line for a resold trade good.
func NewLocalLine(productName, supplier string, purchasePrice, sellingPrice decimal.Decimal, quantity int64) (*InvoiceLine, error) {
	if productName == "" {
		return nil, shared.NewDomainError("MISSING_NAME", "product name is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "line quantity must be positive")
	}
	if sellingPrice.IsNegative() || purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "prices cannot be negative")
	}
	return &InvoiceLine{
		BaseEntity:    shared.NewBaseEntity(),
		ProductType:   ProductLocal,
		ProductName:   productName,
		Supplier:      supplier,
		PurchasePrice: purchasePrice,
		Quantity:      quantity,
		UnitPrice:     sellingPrice,
		TotalPrice:    sellingPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// ConsumptionRequest maps the line's material hints into an allocator request.
func (l *InvoiceLine) ConsumptionRequest() inventory.ConsumptionRequest {
	return inventory.ConsumptionRequest{
		SealHeight:        l.Geometry.Height,
		Quantity:          l.Quantity,
		SelectedMaterials: l.SelectedMaterials,
		MaterialDetails:   l.MaterialDetails,
		MaterialUsed:      l.MaterialUsed,
	}
}

// HasMaterialHint reports whether the allocator has anything to work with.
func (l *InvoiceLine) HasMaterialHint() bool {
	return len(l.SelectedMaterials) > 0 || l.MaterialDetails != nil || l.MaterialUsed != ""
}
