package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealshop/backend/internal/domain/shared"
)

func newTestBucket(t *testing.T) *InventoryBucket {
	t.Helper()
	b, err := NewInventoryBucket(uuid.New(), MaterialBUR, mm(30), mm(50))
	require.NoError(t, err)
	return b
}

func TestInventoryBucketReceiveIssue(t *testing.T) {
	t.Run("receive then issue keeps running balance", func(t *testing.T) {
		b := newTestBucket(t)

		tx1, err := b.Receive(10, "purchase", "supplier_1")
		require.NoError(t, err)
		assert.Equal(t, 10, tx1.RemainingPieces)
		assert.Equal(t, 10, tx1.PiecesChange)

		tx2, err := b.Issue(3, "intake", "batch_B-1")
		require.NoError(t, err)
		assert.Equal(t, 7, tx2.RemainingPieces)
		assert.Equal(t, -3, tx2.PiecesChange)
		assert.Equal(t, 7, b.AvailablePieces)
	})

	t.Run("issue beyond availability fails", func(t *testing.T) {
		b := newTestBucket(t)
		_, err := b.Receive(2, "purchase", "")
		require.NoError(t, err)

		_, err = b.Issue(3, "intake", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, 2, b.AvailablePieces)
	})

	t.Run("new bucket is low stock at default threshold", func(t *testing.T) {
		b := newTestBucket(t)
		_, err := b.Receive(2, "purchase", "")
		require.NoError(t, err)
		assert.True(t, b.IsLowStock())

		_, err = b.Receive(1, "purchase", "")
		require.NoError(t, err)
		assert.False(t, b.IsLowStock())
	})
}

func TestReplayLedger(t *testing.T) {
	t.Run("verifies a mixed in/out ledger", func(t *testing.T) {
		b := newTestBucket(t)
		var txs []InventoryTransaction

		ops := []struct {
			in     bool
			pieces int
		}{
			{true, 10}, {false, 4}, {true, 5}, {false, 11},
		}
		for _, op := range ops {
			var tx *InventoryTransaction
			var err error
			if op.in {
				tx, err = b.Receive(op.pieces, "test", "")
			} else {
				tx, err = b.Issue(op.pieces, "test", "")
			}
			require.NoError(t, err)
			txs = append(txs, *tx)
		}

		balance, err := ReplayLedger(txs)
		require.NoError(t, err)
		assert.Equal(t, b.AvailablePieces, balance)
		assert.Equal(t, 0, balance)
	})

	t.Run("detects a tampered remaining snapshot", func(t *testing.T) {
		b := newTestBucket(t)
		tx1, err := b.Receive(5, "test", "")
		require.NoError(t, err)
		tx2, err := b.Issue(2, "test", "")
		require.NoError(t, err)

		tx2.RemainingPieces = 4
		_, err = ReplayLedger([]InventoryTransaction{*tx1, *tx2})
		require.Error(t, err)
	})
}
