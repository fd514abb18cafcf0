package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealshop/backend/internal/domain/catalog"
	"github.com/sealshop/backend/internal/domain/inventory"
	"github.com/sealshop/backend/internal/domain/shared/valueobject"
)

func mm(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func geometry(t *testing.T, inner, outer, height float64) valueobject.SealGeometry {
	t.Helper()
	g, err := valueobject.NewSealGeometry(mm(inner), mm(outer), mm(height))
	require.NoError(t, err)
	return g
}

func batch(t *testing.T, tenant uuid.UUID, mt inventory.MaterialType, code string, inner, outer, height float64) *inventory.RawMaterialBatch {
	t.Helper()
	b, err := inventory.NewRawMaterialBatch(tenant, mt, mm(inner), mm(outer), mm(height), 1, code, decimal.Zero)
	require.NoError(t, err)
	return b
}

func TestMatchRawMaterials(t *testing.T) {
	tenant := uuid.New()
	q := Query{
		SealType: inventory.SealRS,
		Geometry: geometry(t, 30, 50, 10),
		Quantity: 1,
	}

	t.Run("exact geometry scores highest", func(t *testing.T) {
		exact := batch(t, tenant, inventory.MaterialNBR, "N-1", 30, 50, 100)
		loose := batch(t, tenant, inventory.MaterialNBR, "N-2", 32, 48, 100)

		res := Match(q, []*inventory.RawMaterialBatch{loose, exact}, nil)
		require.Len(t, res.Materials, 2)
		assert.Equal(t, "N-1", res.Materials[0].Batch.UnitCode)
		assert.Equal(t, 110, res.Materials[0].Score)
		assert.Equal(t, "excellent match", res.Materials[0].Warning)
		// loose inner (-5) and small outer (-5)
		assert.Equal(t, 90, res.Materials[1].Score)
	})

	t.Run("excludes batches at or below scrap line", func(t *testing.T) {
		short := batch(t, tenant, inventory.MaterialNBR, "N-1", 30, 50, 15)
		res := Match(q, []*inventory.RawMaterialBatch{short}, nil)
		assert.Empty(t, res.Materials)
	})

	t.Run("excludes batches a single cut would strand in the scrap band", func(t *testing.T) {
		// 20mm - 12mm per seal leaves 8mm of scrap
		stranded := batch(t, tenant, inventory.MaterialNBR, "N-1", 30, 50, 20)
		// 27mm leaves exactly 15mm, still workable
		workable := batch(t, tenant, inventory.MaterialNBR, "N-2", 30, 50, 27)

		res := Match(q, []*inventory.RawMaterialBatch{stranded, workable}, nil)
		require.Len(t, res.Materials, 1)
		assert.Equal(t, "N-2", res.Materials[0].Batch.UnitCode)
	})

	t.Run("applies ten percent diameter tolerance", func(t *testing.T) {
		// inner 33 <= 30+3, outer 45 >= 50-5
		inside := batch(t, tenant, inventory.MaterialNBR, "N-1", 33, 45, 100)
		// inner 33.5 > 33 window
		outside := batch(t, tenant, inventory.MaterialNBR, "N-2", 33.5, 45, 100)

		res := Match(q, []*inventory.RawMaterialBatch{inside, outside}, nil)
		require.Len(t, res.Materials, 1)
		assert.Equal(t, "N-1", res.Materials[0].Batch.UnitCode)
	})

	t.Run("material type filter", func(t *testing.T) {
		nbr := batch(t, tenant, inventory.MaterialNBR, "N-1", 30, 50, 100)
		bur := batch(t, tenant, inventory.MaterialBUR, "B-1", 30, 50, 100)

		filtered := q
		filtered.MaterialType = inventory.MaterialBUR
		res := Match(filtered, []*inventory.RawMaterialBatch{nbr, bur}, nil)
		require.Len(t, res.Materials, 1)
		assert.Equal(t, "B-1", res.Materials[0].Batch.UnitCode)
	})

	t.Run("low stock and close height flagged", func(t *testing.T) {
		// 16mm: above scrap line, one 12mm cut leaves 4mm... stranded, so use 27
		// then shrink height so the close-height warning fires: 27 < 10+5? no.
		// use a batch with height 12..15+? choose height 27 vs close-height 14:
		// 14 <= 15 excluded. close-height needs height < 15 which is excluded,
		// so the warning only fires together with a taller query.
		tall := Query{SealType: inventory.SealRS, Geometry: geometry(t, 30, 50, 25)}
		b := batch(t, tenant, inventory.MaterialNBR, "N-1", 30, 50, 27)

		res := Match(tall, []*inventory.RawMaterialBatch{b}, nil)
		require.Len(t, res.Materials, 1)
		m := res.Materials[0]
		assert.Contains(t, m.Warning, "height close to minimum")
		assert.Equal(t, 100, m.Score) // -10 close height, +10 near-exact diameters
		assert.False(t, m.LowStock)
	})

	t.Run("reported height tolerance has a 5mm floor", func(t *testing.T) {
		res := Match(q, nil, nil)
		assert.True(t, res.Tolerances.Height.Equal(mm(5)))

		tall := Query{SealType: inventory.SealRS, Geometry: geometry(t, 30, 50, 80)}
		res = Match(tall, nil, nil)
		assert.True(t, res.Tolerances.Height.Equal(mm(8)))
	})
}

func TestMatchFinishedProducts(t *testing.T) {
	tenant := uuid.New()
	q := Query{SealType: inventory.SealRSL, Geometry: geometry(t, 30, 50, 10)}

	product := func(t *testing.T, st inventory.SealType, inner, outer, height float64) *catalog.FinishedProduct {
		t.Helper()
		p, err := catalog.NewFinishedProduct(tenant, st, inventory.MaterialNBR,
			geometry(t, inner, outer, height), 5, decimal.NewFromInt(20))
		require.NoError(t, err)
		return p
	}

	t.Run("matches within one millimeter on every dimension", func(t *testing.T) {
		exact := product(t, inventory.SealRSL, 30, 50, 10)
		offByOne := product(t, inventory.SealRSL, 31, 49, 11)
		offByTwo := product(t, inventory.SealRSL, 32, 50, 10)
		wrongType := product(t, inventory.SealRS, 30, 50, 10)

		res := Match(q, nil, []*catalog.FinishedProduct{exact, offByOne, offByTwo, wrongType})
		assert.Len(t, res.Products, 2)
	})

	t.Run("no tolerance window beyond the millimeter band", func(t *testing.T) {
		res := Match(q, nil, []*catalog.FinishedProduct{product(t, inventory.SealRSL, 33, 50, 10)})
		assert.Empty(t, res.Products)
	})
}
