package treasury

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// Bidirectional mapping between the storage representation and the domain
// shape. This file is the single place storage-schema evolution touches.
//
// Field pairs (storage -> domain):
//
//	id                  -> Entry.ID
//	user_id             -> Entry.OwnerID
//	type                -> Entry.Direction   (income <-> inflow, expense <-> outflow)
//	category            -> Entry.Category
//	amount              -> Entry.Amount      (numeric string <-> decimal, 2 digits)
//	date                -> Entry.OccurredOn  (ISO-8601 date string <-> time.Time)
//	description         -> Entry.Note
//	payer_name          -> Entry.CounterpartyName
//	treasurer_name      -> Entry.RecorderName
//	vice_treasurer_name -> Entry.DeputyRecorderName

// WireDateFormat is the ISO-8601 calendar-date layout used by the store.
const WireDateFormat = "2006-01-02"

// EntryRow is the storage-shaped ledger record: snake_case keys, string
// encodings.
type EntryRow struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	Type              string `json:"type"`
	Category          string `json:"category"`
	Amount            string `json:"amount"`
	Date              string `json:"date"`
	Description       string `json:"description,omitempty"`
	PayerName         string `json:"payer_name,omitempty"`
	TreasurerName     string `json:"treasurer_name"`
	ViceTreasurerName string `json:"vice_treasurer_name,omitempty"`
}

// TreasurerRow is the storage-shaped treasurer directory record.
type TreasurerRow struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

var directionToWire = map[Direction]string{
	DirectionInflow:  "income",
	DirectionOutflow: "expense",
}

var wireToDirection = map[string]Direction{
	"income":  DirectionInflow,
	"expense": DirectionOutflow,
}

// EntryFromRow maps a storage row into the domain shape.
func EntryFromRow(row EntryRow) (Entry, error) {
	direction, ok := wireToDirection[row.Type]
	if !ok {
		return Entry{}, apperrors.New(apperrors.CodeInternal, "unmapped entry type "+row.Type)
	}
	category := Category(row.Category)
	if !category.Valid() {
		return Entry{}, apperrors.New(apperrors.CodeInternal, "unmapped entry category "+row.Category)
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return Entry{}, apperrors.Wrap(err, apperrors.CodeInternal, "parse entry amount")
	}
	occurredOn, err := time.ParseInLocation(WireDateFormat, row.Date, time.UTC)
	if err != nil {
		return Entry{}, apperrors.Wrap(err, apperrors.CodeInternal, "parse entry date")
	}
	return Entry{
		ID:                 row.ID,
		OwnerID:            row.UserID,
		Direction:          direction,
		Category:           category,
		Amount:             NormalizeAmount(amount),
		OccurredOn:         occurredOn,
		Note:               row.Description,
		CounterpartyName:   row.PayerName,
		RecorderName:       row.TreasurerName,
		DeputyRecorderName: row.ViceTreasurerName,
	}, nil
}

// EntryToRow maps a domain entry into the storage shape. The amount is
// normalized here so nothing unnormalized ever reaches persistence.
func EntryToRow(e Entry) EntryRow {
	return EntryRow{
		ID:                e.ID,
		UserID:            e.OwnerID,
		Type:              directionToWire[e.Direction],
		Category:          string(e.Category),
		Amount:            NormalizeAmount(e.Amount).StringFixed(2),
		Date:              e.OccurredOn.Format(WireDateFormat),
		Description:       e.Note,
		PayerName:         e.CounterpartyName,
		TreasurerName:     e.RecorderName,
		ViceTreasurerName: e.DeputyRecorderName,
	}
}

// TreasurerFromRow maps a storage row into the domain shape.
func TreasurerFromRow(row TreasurerRow) Treasurer {
	return Treasurer{ID: row.ID, OwnerID: row.UserID, Name: row.Name}
}

// TreasurerToRow maps a domain treasurer into the storage shape.
func TreasurerToRow(t Treasurer) TreasurerRow {
	return TreasurerRow{ID: t.ID, UserID: t.OwnerID, Name: t.Name}
}
