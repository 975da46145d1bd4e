// Package memory is the in-process Store implementation for development and
// tests. Semantics mirror the postgres store, including feed publication
// after confirmed mutations.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/sentinel"
)

// Store keeps rows in maps keyed by id. A nil publisher disables feed
// notifications.
type Store struct {
	publisher feed.Publisher

	mu         sync.Mutex
	entries    map[string]treasury.EntryRow
	treasurers map[string]treasury.TreasurerRow
}

// New builds an empty store. publisher may be nil.
func New(publisher feed.Publisher) *Store {
	return &Store{
		publisher:  publisher,
		entries:    make(map[string]treasury.EntryRow),
		treasurers: make(map[string]treasury.TreasurerRow),
	}
}

// QueryEntries returns the owner's rows ordered by date descending.
func (s *Store) QueryEntries(ctx context.Context, ownerID string) ([]treasury.EntryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]treasury.EntryRow, 0)
	for _, row := range s.entries {
		if row.UserID == ownerID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

// InsertEntry stores a row, assigning an id when absent, and returns the
// stored row.
func (s *Store) InsertEntry(ctx context.Context, row treasury.EntryRow) (treasury.EntryRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.entries[row.ID] = row
	s.mu.Unlock()

	s.publish(ctx, feed.TableEntries, row.UserID)
	return row, nil
}

// DeleteEntry removes the owner's row. Unknown ids (or another owner's rows)
// come back as sentinel.ErrNotFound.
func (s *Store) DeleteEntry(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	row, ok := s.entries[id]
	if !ok || row.UserID != ownerID {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.entries, id)
	s.mu.Unlock()

	s.publish(ctx, feed.TableEntries, ownerID)
	return nil
}

// QueryTreasurers returns the owner's directory ordered by name ascending.
func (s *Store) QueryTreasurers(ctx context.Context, ownerID string) ([]treasury.TreasurerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]treasury.TreasurerRow, 0)
	for _, row := range s.treasurers {
		if row.UserID == ownerID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows, nil
}

// InsertTreasurer stores a directory row and returns it with its assigned id.
func (s *Store) InsertTreasurer(ctx context.Context, row treasury.TreasurerRow) (treasury.TreasurerRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.treasurers[row.ID] = row
	s.mu.Unlock()

	s.publish(ctx, feed.TableTreasurers, row.UserID)
	return row, nil
}

func (s *Store) publish(ctx context.Context, table, ownerID string) {
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, table, ownerID)
	}
}
