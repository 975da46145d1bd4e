package treasury

import "context"

// Store is the remote authoritative record store port. All operations are
// scoped to an owner id; there is no cross-owner visibility. Query order is
// server-defined: entries by date descending, treasurers by name ascending.
//
// Implementations publish a change-feed notification after each confirmed
// mutation, which is how watching clients learn to re-pull.
type Store interface {
	QueryEntries(ctx context.Context, ownerID string) ([]EntryRow, error)
	InsertEntry(ctx context.Context, row EntryRow) (EntryRow, error)
	DeleteEntry(ctx context.Context, ownerID, id string) error

	QueryTreasurers(ctx context.Context, ownerID string) ([]TreasurerRow, error)
	InsertTreasurer(ctx context.Context, row TreasurerRow) (TreasurerRow, error)
}
