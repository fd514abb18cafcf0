package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mm(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestBatch(t *testing.T, height int64) *RawMaterialBatch {
	t.Helper()
	b, err := NewRawMaterialBatch(uuid.New(), MaterialNBR, mm(25), mm(40), mm(height), 1, "N-1", decimal.Zero)
	require.NoError(t, err)
	return b
}

func TestNewRawMaterialBatch(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		b := newTestBatch(t, 100)
		assert.Equal(t, "N-1", b.UnitCode)
		assert.Equal(t, 1, b.GetVersion())
		assert.Len(t, b.GetDomainEvents(), 1)
	})

	t.Run("rejects unknown material type", func(t *testing.T) {
		_, err := NewRawMaterialBatch(uuid.New(), MaterialType("EPDM"), mm(25), mm(40), mm(100), 1, "X-1", decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects inner >= outer", func(t *testing.T) {
		_, err := NewRawMaterialBatch(uuid.New(), MaterialNBR, mm(40), mm(40), mm(100), 1, "N-1", decimal.Zero)
		require.Error(t, err)
	})
}

func TestRawMaterialBatchConsume(t *testing.T) {
	t.Run("consumes requested height", func(t *testing.T) {
		b := newTestBatch(t, 100)
		got := b.Consume(mm(30))
		assert.True(t, got.Equal(mm(30)))
		assert.True(t, b.Height.Equal(mm(70)))
	})

	t.Run("caps at available height", func(t *testing.T) {
		b := newTestBatch(t, 20)
		got := b.Consume(mm(50))
		assert.True(t, got.Equal(mm(20)))
		assert.True(t, b.Height.IsZero())
	})

	t.Run("restore returns consumed height", func(t *testing.T) {
		b := newTestBatch(t, 100)
		b.Consume(mm(40))
		b.Restore(mm(40))
		assert.True(t, b.Height.Equal(mm(100)))
	})
}

func TestRawMaterialBatchMaxSeals(t *testing.T) {
	t.Run("simple division", func(t *testing.T) {
		// 100mm / (8+2)mm per seal = 10 seals, zero leftover
		b := newTestBatch(t, 100)
		assert.EqualValues(t, 10, b.MaxSeals(mm(8)))
	})

	t.Run("gives up one seal when leftover is scrap", func(t *testing.T) {
		// 105mm / 10mm = 10 seals leaving 5mm of scrap, so 9
		b := newTestBatch(t, 105)
		assert.EqualValues(t, 9, b.MaxSeals(mm(8)))
	})

	t.Run("keeps all seals when leftover is workable", func(t *testing.T) {
		// 95mm / (18+2)mm = 4 seals leaving 15mm, which is still usable stock
		b := newTestBatch(t, 95)
		assert.EqualValues(t, 4, b.MaxSeals(mm(18)))
	})

	t.Run("zero when batch too short", func(t *testing.T) {
		b := newTestBatch(t, 9)
		assert.EqualValues(t, 0, b.MaxSeals(mm(8)))
	})
}

func TestMaterialTypeCodePrefix(t *testing.T) {
	assert.Equal(t, "B", MaterialBUR.CodePrefix())
	assert.Equal(t, "N", MaterialNBR.CodePrefix())
	assert.Equal(t, "T", MaterialBT.CodePrefix())
	assert.Equal(t, "V", MaterialVT.CodePrefix())
	assert.Equal(t, "M", MaterialBOOM.CodePrefix())
	assert.Equal(t, "X", MaterialType("SILICONE").CodePrefix())
}
