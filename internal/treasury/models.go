// Package treasury holds the ledger domain: entries, the treasurer
// directory, amount normalization and the storage field-mapping layer.
package treasury

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// Direction says which way money moved.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// Category is the closed set of entry categories kept by the ledger.
type Category string

const (
	CategoryTithe    Category = "dizimo"
	CategoryOffering Category = "oferta"
	CategoryVow      Category = "voto"
	CategoryExpense  Category = "despesa"
)

var categories = map[Category]struct{}{
	CategoryTithe:    {},
	CategoryOffering: {},
	CategoryVow:      {},
	CategoryExpense:  {},
}

// Valid reports whether the category belongs to the closed enumeration.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// MinEntryDate is the fixed epoch; entries cannot be dated before it.
var MinEntryDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one ledger record. Amount is always normalized to exactly two
// fractional digits before persistence and before display.
type Entry struct {
	ID                 string
	OwnerID            string
	Direction          Direction
	Category           Category
	Amount             decimal.Decimal
	OccurredOn         time.Time // calendar date, midnight UTC
	Note               string
	CounterpartyName   string
	RecorderName       string
	DeputyRecorderName string
}

// NormalizeAmount rounds half-up to two fractional digits. Idempotent:
// normalizing an already-normalized amount is a no-op.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Validate checks the record against the domain invariants. now supplies
// "today" so tests control the future-date rule.
func (e Entry) Validate(now time.Time) error {
	if !e.Direction.Valid() {
		return apperrors.New(apperrors.CodeInvalidInput, "unknown direction")
	}
	if !e.Category.Valid() {
		return apperrors.New(apperrors.CodeInvalidInput, "unknown category")
	}
	if !e.Amount.IsPositive() {
		return apperrors.New(apperrors.CodeInvalidInput, "amount must be greater than zero")
	}
	if !e.Amount.Equal(NormalizeAmount(e.Amount)) {
		return apperrors.New(apperrors.CodeInvalidInput, "amount must have at most two decimal places")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if e.OccurredOn.After(today) {
		return apperrors.New(apperrors.CodeInvalidInput, "date cannot be in the future")
	}
	if e.OccurredOn.Before(MinEntryDate) {
		return apperrors.New(apperrors.CodeInvalidInput, "date is before the ledger epoch")
	}
	if strings.TrimSpace(e.RecorderName) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "treasurer name is required")
	}
	return nil
}

// Treasurer is one row of the named-treasurer directory.
type Treasurer struct {
	ID      string
	OwnerID string
	Name    string
}
