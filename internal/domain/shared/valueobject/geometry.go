package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SealGeometry describes the three dimensions of an oil seal in millimeters:
// inner diameter, outer diameter, and height.
type SealGeometry struct {
	InnerDiameter decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	OuterDiameter decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Height        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// NewSealGeometry creates a validated seal geometry
func NewSealGeometry(inner, outer, height decimal.Decimal) (SealGeometry, error) {
	g := SealGeometry{InnerDiameter: inner, OuterDiameter: outer, Height: height}
	if err := g.Validate(); err != nil {
		return SealGeometry{}, err
	}
	return g, nil
}

// Validate checks the geometric invariants
func (g SealGeometry) Validate() error {
	if !g.InnerDiameter.IsPositive() {
		return fmt.Errorf("inner diameter must be positive, got %s", g.InnerDiameter)
	}
	if !g.OuterDiameter.IsPositive() {
		return fmt.Errorf("outer diameter must be positive, got %s", g.OuterDiameter)
	}
	if !g.Height.IsPositive() {
		return fmt.Errorf("height must be positive, got %s", g.Height)
	}
	if g.InnerDiameter.GreaterThanOrEqual(g.OuterDiameter) {
		return fmt.Errorf("inner diameter %s must be smaller than outer diameter %s",
			g.InnerDiameter, g.OuterDiameter)
	}
	return nil
}

// Equal reports whether two geometries match exactly
func (g SealGeometry) Equal(other SealGeometry) bool {
	return g.InnerDiameter.Equal(other.InnerDiameter) &&
		g.OuterDiameter.Equal(other.OuterDiameter) &&
		g.Height.Equal(other.Height)
}

// WithinMillimeter reports whether every dimension of other lies within
// one millimeter of this geometry. Used for finished-product matching.
func (g SealGeometry) WithinMillimeter(other SealGeometry) bool {
	one := decimal.NewFromInt(1)
	return g.InnerDiameter.Sub(other.InnerDiameter).Abs().LessThanOrEqual(one) &&
		g.OuterDiameter.Sub(other.OuterDiameter).Abs().LessThanOrEqual(one) &&
		g.Height.Sub(other.Height).Abs().LessThanOrEqual(one)
}

func (g SealGeometry) String() string {
	return fmt.Sprintf("%sx%sx%s", g.InnerDiameter, g.OuterDiameter, g.Height)
}
