package debt

import (
	"github.com/shopspring/decimal"
)

// StatementLine is one ledger entry annotated with the running balance
// after it was applied.
type StatementLine struct {
	Entry          LedgerEntry     `json:"entry"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// BuildStatement computes running balances over entries already ordered
// by transaction date. The returned total equals the running balance of
// the last line.
func BuildStatement(entries []LedgerEntry) ([]StatementLine, decimal.Decimal) {
	lines := make([]StatementLine, 0, len(entries))
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Amount())
		lines = append(lines, StatementLine{Entry: e, RunningBalance: balance})
	}
	return lines, balance
}

// SumBalance folds entries into a single outstanding balance
func SumBalance(entries []LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Amount())
	}
	return balance
}
