package treasury

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Summary aggregates a snapshot of entries. Computed client-side over the
// current items; the remote store stays the source of truth for the rows.
type Summary struct {
	TotalInflow  decimal.Decimal
	TotalOutflow decimal.Decimal
	Balance      decimal.Decimal
}

// Summarize totals the snapshot by direction.
func Summarize(entries []Entry) Summary {
	inflow := decimal.Zero
	outflow := decimal.Zero
	for _, e := range entries {
		switch e.Direction {
		case DirectionInflow:
			inflow = inflow.Add(e.Amount)
		case DirectionOutflow:
			outflow = outflow.Add(e.Amount)
		}
	}
	return Summary{
		TotalInflow:  inflow,
		TotalOutflow: outflow,
		Balance:      inflow.Sub(outflow),
	}
}

// FormatBRL renders a normalized amount as Brazilian currency ("R$ 1.234,56").
// Amounts are normalized to two digits, so the cent conversion is exact.
func FormatBRL(d decimal.Decimal) string {
	cents := NormalizeAmount(d).Mul(decimal.NewFromInt(100)).IntPart()
	return money.New(cents, money.BRL).Display()
}
