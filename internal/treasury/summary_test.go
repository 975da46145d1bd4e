package treasury

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func entryWith(direction Direction, amount string) Entry {
	return Entry{Direction: direction, Amount: decimal.RequireFromString(amount)}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Entry{
		entryWith(DirectionInflow, "100.00"),
		entryWith(DirectionInflow, "50.50"),
		entryWith(DirectionOutflow, "30.25"),
	})

	assert.True(t, s.TotalInflow.Equal(decimal.RequireFromString("150.50")))
	assert.True(t, s.TotalOutflow.Equal(decimal.RequireFromString("30.25")))
	assert.True(t, s.Balance.Equal(decimal.RequireFromString("120.25")))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalInflow.IsZero())
	assert.True(t, s.TotalOutflow.IsZero())
	assert.True(t, s.Balance.IsZero())
}

func TestSummarizeNegativeBalance(t *testing.T) {
	s := Summarize([]Entry{
		entryWith(DirectionInflow, "10.00"),
		entryWith(DirectionOutflow, "25.00"),
	})
	assert.True(t, s.Balance.Equal(decimal.RequireFromString("-15.00")))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$1.234,56", FormatBRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$0,00", FormatBRL(decimal.Zero))
	assert.Equal(t, "R$12,35", FormatBRL(decimal.RequireFromString("12.345")))
}
