package treasury

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.345", "12.35"}, // half-up
		{"12.344", "12.34"},
		{"12.3", "12.3"},
		{"12", "12"},
		{"0.005", "0.01"},
		{"99.999", "100"},
	}
	for _, tt := range tests {
		got := NormalizeAmount(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got.String(), "normalize %s", tt.in)
	}
}

func TestNormalizeAmountIdempotent(t *testing.T) {
	once := NormalizeAmount(decimal.RequireFromString("12.345"))
	twice := NormalizeAmount(once)
	assert.True(t, once.Equal(twice))
}

func TestEntryValidate(t *testing.T) {
	now := time.Date(2026, time.August, 29, 15, 0, 0, 0, time.UTC)
	valid := Entry{
		OwnerID:      "owner-1",
		Direction:    DirectionInflow,
		Category:     CategoryTithe,
		Amount:       decimal.RequireFromString("150.00"),
		OccurredOn:   time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		RecorderName: "Ana",
	}
	require.NoError(t, valid.Validate(now))

	// Today itself is allowed.
	today := valid
	today.OccurredOn = time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, today.Validate(now))

	// The epoch itself is allowed.
	epoch := valid
	epoch.OccurredOn = MinEntryDate
	require.NoError(t, epoch.Validate(now))

	tests := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"unknown direction", func(e *Entry) { e.Direction = "sideways" }},
		{"unknown category", func(e *Entry) { e.Category = "aluguel" }},
		{"zero amount", func(e *Entry) { e.Amount = decimal.Zero }},
		{"negative amount", func(e *Entry) { e.Amount = decimal.RequireFromString("-1") }},
		{"three decimal places", func(e *Entry) { e.Amount = decimal.RequireFromString("10.005") }},
		{"future date", func(e *Entry) {
			e.OccurredOn = time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
		}},
		{"before epoch", func(e *Entry) {
			e.OccurredOn = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
		}},
		{"blank recorder", func(e *Entry) { e.RecorderName = "  " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, e.Validate(now))
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{CategoryTithe, CategoryOffering, CategoryVow, CategoryExpense} {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("aluguel").Valid())
	assert.False(t, Category("").Valid())
}
