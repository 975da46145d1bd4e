package treasury

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

func TestEntryFromRow(t *testing.T) {
	entry, err := EntryFromRow(EntryRow{
		ID:                "e-1",
		UserID:            "owner-1",
		Type:              "income",
		Category:          "dizimo",
		Amount:            "150.50",
		Date:              "2026-08-28",
		Description:       "culto de domingo",
		PayerName:         "Carlos",
		TreasurerName:     "Ana",
		ViceTreasurerName: "Beatriz",
	})
	require.NoError(t, err)

	assert.Equal(t, "e-1", entry.ID)
	assert.Equal(t, "owner-1", entry.OwnerID)
	assert.Equal(t, DirectionInflow, entry.Direction)
	assert.Equal(t, CategoryTithe, entry.Category)
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("150.50")))
	assert.Equal(t, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC), entry.OccurredOn)
	assert.Equal(t, "culto de domingo", entry.Note)
	assert.Equal(t, "Carlos", entry.CounterpartyName)
	assert.Equal(t, "Ana", entry.RecorderName)
	assert.Equal(t, "Beatriz", entry.DeputyRecorderName)
}

func TestEntryFromRowRejectsBadRows(t *testing.T) {
	base := EntryRow{
		ID: "e-1", UserID: "owner-1", Type: "expense", Category: "despesa",
		Amount: "10.00", Date: "2026-08-28", TreasurerName: "Ana",
	}

	badType := base
	badType.Type = "transfer"
	_, err := EntryFromRow(badType)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	badCategory := base
	badCategory.Category = "aluguel"
	_, err = EntryFromRow(badCategory)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	badAmount := base
	badAmount.Amount = "dez reais"
	_, err = EntryFromRow(badAmount)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	badDate := base
	badDate.Date = "28/08/2026"
	_, err = EntryFromRow(badDate)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestEntryToRow(t *testing.T) {
	row := EntryToRow(Entry{
		ID:           "e-1",
		OwnerID:      "owner-1",
		Direction:    DirectionOutflow,
		Category:     CategoryExpense,
		Amount:       decimal.RequireFromString("99.999"),
		OccurredOn:   time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		RecorderName: "Ana",
	})

	assert.Equal(t, "expense", row.Type)
	assert.Equal(t, "despesa", row.Category)
	assert.Equal(t, "100.00", row.Amount, "amount is normalized on the way out")
	assert.Equal(t, "2026-08-28", row.Date)
	assert.Equal(t, "owner-1", row.UserID)
}

func TestEntryRowRoundTrip(t *testing.T) {
	original := Entry{
		ID:               "e-1",
		OwnerID:          "owner-1",
		Direction:        DirectionInflow,
		Category:         CategoryOffering,
		Amount:           decimal.RequireFromString("42.10"),
		OccurredOn:       time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		Note:             "oferta especial",
		CounterpartyName: "Carlos",
		RecorderName:     "Ana",
	}

	back, err := EntryFromRow(EntryToRow(original))
	require.NoError(t, err)
	assert.True(t, back.Amount.Equal(original.Amount))
	back.Amount = original.Amount
	assert.Equal(t, original, back)
}

func TestTreasurerRowMapping(t *testing.T) {
	row := TreasurerToRow(Treasurer{ID: "t-1", OwnerID: "owner-1", Name: "Ana"})
	assert.Equal(t, TreasurerRow{ID: "t-1", UserID: "owner-1", Name: "Ana"}, row)
	assert.Equal(t, Treasurer{ID: "t-1", OwnerID: "owner-1", Name: "Ana"}, TreasurerFromRow(row))
}
