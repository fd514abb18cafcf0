package treasury

import "github.com/shopspring/decimal"

// ComputeBalances replays the ledger into per-account balances. Income and
// transfer-in rows add, expense and transfer-out rows subtract. Outstanding
// deferred invoice totals land on the deferred account, and general shop
// expenses come out of cash.
func ComputeBalances(txs []Transaction, deferredTotals, generalExpenses []decimal.Decimal) map[AccountID]decimal.Decimal {
	balances := make(map[AccountID]decimal.Decimal, len(Accounts))
	for _, acc := range Accounts {
		balances[acc] = decimal.Zero
	}

	for _, tx := range txs {
		switch tx.Type {
		case Income, TransferIn:
			balances[tx.AccountID] = balances[tx.AccountID].Add(tx.Amount)
		case Expense, TransferOut:
			balances[tx.AccountID] = balances[tx.AccountID].Sub(tx.Amount)
		}
	}

	for _, amount := range deferredTotals {
		balances[AccountDeferred] = balances[AccountDeferred].Add(amount)
	}
	for _, amount := range generalExpenses {
		balances[AccountCash] = balances[AccountCash].Sub(amount)
	}

	return balances
}

// TotalAcrossAccounts sums every balance except the deferred bucket, which
// is owed money rather than held money.
func TotalAcrossAccounts(balances map[AccountID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for acc, balance := range balances {
		if acc == AccountDeferred {
			continue
		}
		total = total.Add(balance)
	}
	return total
}
