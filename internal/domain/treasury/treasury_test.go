package treasury

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNewTransfer(t *testing.T) {
	tenant := uuid.New()

	t.Run("creates a linked pair", func(t *testing.T) {
		out, in, err := NewTransfer(tenant, AccountCash, AccountInstapay, amt(500), "drawer to wallet")
		require.NoError(t, err)

		assert.Equal(t, TransferOut, out.Type)
		assert.Equal(t, TransferIn, in.Type)
		require.NotNil(t, out.RelatedTransactionID)
		require.NotNil(t, in.RelatedTransactionID)
		assert.Equal(t, in.GetID(), *out.RelatedTransactionID)
		assert.Equal(t, out.GetID(), *in.RelatedTransactionID)
	})

	t.Run("rejects same-account transfer", func(t *testing.T) {
		_, _, err := NewTransfer(tenant, AccountCash, AccountCash, amt(100), "")
		require.Error(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewIncome(tenant, AccountCash, decimal.Zero, "", "")
		require.Error(t, err)
	})
}

func TestComputeBalances(t *testing.T) {
	tenant := uuid.New()

	mustIncome := func(acc AccountID, v int64) Transaction {
		tx, err := NewIncome(tenant, acc, amt(v), "", "")
		require.NoError(t, err)
		return *tx
	}
	mustExpense := func(acc AccountID, v int64) Transaction {
		tx, err := NewExpense(tenant, acc, amt(v), "", "")
		require.NoError(t, err)
		return *tx
	}

	t.Run("replays income and expense per account", func(t *testing.T) {
		txs := []Transaction{
			mustIncome(AccountCash, 1000),
			mustExpense(AccountCash, 300),
			mustIncome(AccountInstapay, 250),
		}
		balances := ComputeBalances(txs, nil, nil)
		assert.True(t, balances[AccountCash].Equal(amt(700)))
		assert.True(t, balances[AccountInstapay].Equal(amt(250)))
		assert.True(t, balances[AccountDeferred].IsZero())
	})

	t.Run("transfer moves money without changing the total", func(t *testing.T) {
		out, in, err := NewTransfer(tenant, AccountCash, AccountVodafoneSawy, amt(200), "")
		require.NoError(t, err)
		txs := []Transaction{mustIncome(AccountCash, 500), *out, *in}

		balances := ComputeBalances(txs, nil, nil)
		assert.True(t, balances[AccountCash].Equal(amt(300)))
		assert.True(t, balances[AccountVodafoneSawy].Equal(amt(200)))
		assert.True(t, TotalAcrossAccounts(balances).Equal(amt(500)))
	})

	t.Run("deferred totals and general expenses", func(t *testing.T) {
		balances := ComputeBalances(
			[]Transaction{mustIncome(AccountCash, 1000)},
			[]decimal.Decimal{amt(400), amt(150)},
			[]decimal.Decimal{amt(100)},
		)
		assert.True(t, balances[AccountDeferred].Equal(amt(550)))
		assert.True(t, balances[AccountCash].Equal(amt(900)))
		// deferred money is owed, not held
		assert.True(t, TotalAcrossAccounts(balances).Equal(amt(900)))
	})
}
