package matching

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

// DiameterTolerancePercent is the tolerance window applied to both diameters,
// sized for measurements converted from inches.
var DiameterTolerancePercent = decimal.NewFromFloat(0.1)

// minHeightTolerance is the floor on the reported height tolerance.
var minHeightTolerance = decimal.NewFromInt(5)

// Query describes the seal the customer needs.
type Query struct {
	SealType     inventory.SealType
	MaterialType inventory.MaterialType // optional filter, empty means any
	Geometry     valueobject.SealGeometry
	Quantity     int64
}

// Tolerances reports the windows a match was evaluated under.
type Tolerances struct {
	Inner  decimal.Decimal `json:"inner_tolerance"`
	Outer  decimal.Decimal `json:"outer_tolerance"`
	Height decimal.Decimal `json:"height_tolerance"`
}

// MaterialMatch is a raw material batch that can be cut into the queried seal.
type MaterialMatch struct {
	Batch      *inventory.RawMaterialBatch
	Score      int
	Warning    string
	LowStock   bool
	Tolerances Tolerances
}

// Result holds matched raw materials (scored, best first) and finished
// products (exact profile matches, unscored).
type Result struct {
	Materials  []MaterialMatch
	Products   []*catalog.FinishedProduct
	Query      Query
	Tolerances Tolerances
}

// Match evaluates the query against raw material batches and finished
// products. It is a pure function over its inputs.
func Match(q Query, batches []*inventory.RawMaterialBatch, products []*catalog.FinishedProduct) Result {
	tol := Tolerances{
		Inner:  q.Geometry.InnerDiameter.Mul(DiameterTolerancePercent),
		Outer:  q.Geometry.OuterDiameter.Mul(DiameterTolerancePercent),
		Height: decimal.Max(minHeightTolerance, q.Geometry.Height.Mul(DiameterTolerancePercent)),
	}

	res := Result{Query: q, Tolerances: tol}
	perSeal := inventory.PerSealHeight(q.Geometry.Height)

	for _, b := range batches {
		if q.MaterialType != "" && b.MaterialType != q.MaterialType {
			continue
		}
		// a batch at or below the scrap line cannot be offered
		if b.Height.LessThanOrEqual(inventory.MinUsableHeight) {
			continue
		}
		// cutting one seal must not strand the batch in the scrap band
		leftover := b.Height.Sub(perSeal)
		if leftover.IsPositive() && leftover.LessThan(inventory.UnusableRemainderMax) {
			continue
		}

		innerOK := b.InnerDiameter.LessThanOrEqual(q.Geometry.InnerDiameter.Add(tol.Inner))
		outerOK := b.OuterDiameter.GreaterThanOrEqual(q.Geometry.OuterDiameter.Sub(tol.Outer))
		heightOK := b.Height.GreaterThanOrEqual(perSeal)
		if !innerOK || !outerOK || !heightOK {
			continue
		}

		res.Materials = append(res.Materials, scoreMatch(q, b, tol))
	}

	// stable so equal scores keep shelf order
	sort.SliceStable(res.Materials, func(i, j int) bool {
		return res.Materials[i].Score > res.Materials[j].Score
	})

	one := decimal.NewFromInt(1)
	for _, p := range products {
		if p.SealType != q.SealType {
			continue
		}
		if p.Geometry.InnerDiameter.Sub(q.Geometry.InnerDiameter).Abs().GreaterThan(one) ||
			p.Geometry.OuterDiameter.Sub(q.Geometry.OuterDiameter).Abs().GreaterThan(one) ||
			p.Geometry.Height.Sub(q.Geometry.Height).Abs().GreaterThan(one) {
			continue
		}
		res.Products = append(res.Products, p)
	}

	return res
}

func scoreMatch(q Query, b *inventory.RawMaterialBatch, tol Tolerances) MaterialMatch {
	score := 100
	var warnings []string

	if b.Height.LessThan(q.Geometry.Height.Add(decimal.NewFromInt(5))) {
		warnings = append(warnings, "height close to minimum")
		score -= 10
	}
	if b.InnerDiameter.GreaterThan(q.Geometry.InnerDiameter) {
		warnings = append(warnings, "inner diameter slightly larger")
		score -= 5
	}
	if b.OuterDiameter.LessThan(q.Geometry.OuterDiameter) {
		warnings = append(warnings, "outer diameter slightly smaller")
		score -= 5
	}

	one := decimal.NewFromInt(1)
	if b.InnerDiameter.Sub(q.Geometry.InnerDiameter).Abs().LessThan(one) &&
		b.OuterDiameter.Sub(q.Geometry.OuterDiameter).Abs().LessThan(one) {
		score += 10
		if len(warnings) == 0 {
			warnings = append(warnings, "excellent match")
		}
	}

	return MaterialMatch{
		Batch:      b,
		Score:      score,
		Warning:    strings.Join(warnings, " - "),
		LowStock:   b.Height.LessThan(inventory.LowStockHeight),
		Tolerances: tol,
	}
}
