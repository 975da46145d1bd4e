// Package postgres is the production Store implementation. It speaks plain
// database/sql over the pgx stdlib driver and publishes a change-feed
// notification after each confirmed mutation.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/sentinel"
)

// Store wraps a SQL connection pool. A nil publisher disables feed
// notifications; a publish failure is logged but never fails the mutation,
// since the row is already committed.
type Store struct {
	db        *sql.DB
	publisher feed.Publisher
	logger    *slog.Logger
}

// New builds a store over an open pool. publisher may be nil.
func New(db *sql.DB, publisher feed.Publisher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{db: db, publisher: publisher, logger: logger}
}

const queryEntriesSQL = `
SELECT id, user_id, type, category, amount::text,
       to_char(date, 'YYYY-MM-DD'),
       COALESCE(description, ''), COALESCE(payer_name, ''),
       treasurer_name, COALESCE(vice_treasurer_name, '')
FROM financial_entries
WHERE user_id = $1
ORDER BY date DESC, created_at DESC`

// QueryEntries returns the owner's rows ordered by date descending.
func (s *Store) QueryEntries(ctx context.Context, ownerID string) ([]treasury.EntryRow, error) {
	rows, err := s.db.QueryContext(ctx, queryEntriesSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	out := make([]treasury.EntryRow, 0)
	for rows.Next() {
		var row treasury.EntryRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Type, &row.Category,
			&row.Amount, &row.Date, &row.Description, &row.PayerName,
			&row.TreasurerName, &row.ViceTreasurerName); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

const insertEntrySQL = `
INSERT INTO financial_entries
	(id, user_id, type, category, amount, date, description, payer_name, treasurer_name, vice_treasurer_name)
VALUES ($1, $2, $3, $4, $5::numeric, $6::date, NULLIF($7, ''), NULLIF($8, ''), $9, NULLIF($10, ''))
RETURNING id, amount::text, to_char(date, 'YYYY-MM-DD')`

// InsertEntry persists a row and returns it as stored (id assigned, amount
// and date in canonical storage encoding).
func (s *Store) InsertEntry(ctx context.Context, row treasury.EntryRow) (treasury.EntryRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.db.QueryRowContext(ctx, insertEntrySQL,
		row.ID, row.UserID, row.Type, row.Category, row.Amount, row.Date,
		row.Description, row.PayerName, row.TreasurerName, row.ViceTreasurerName,
	).Scan(&row.ID, &row.Amount, &row.Date)
	if err != nil {
		return treasury.EntryRow{}, fmt.Errorf("insert entry: %w", err)
	}

	s.publish(ctx, feed.TableEntries, row.UserID)
	return row, nil
}

// DeleteEntry removes the owner's row; a miss (including another owner's row)
// is sentinel.ErrNotFound.
func (s *Store) DeleteEntry(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM financial_entries WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}

	s.publish(ctx, feed.TableEntries, ownerID)
	return nil
}

// QueryTreasurers returns the owner's directory ordered by name ascending.
func (s *Store) QueryTreasurers(ctx context.Context, ownerID string) ([]treasury.TreasurerRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name FROM treasurers WHERE user_id = $1 ORDER BY name ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query treasurers: %w", err)
	}
	defer rows.Close()

	out := make([]treasury.TreasurerRow, 0)
	for rows.Next() {
		var row treasury.TreasurerRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Name); err != nil {
			return nil, fmt.Errorf("scan treasurer: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate treasurers: %w", err)
	}
	return out, nil
}

// InsertTreasurer persists a directory row and returns it as stored.
func (s *Store) InsertTreasurer(ctx context.Context, row treasury.TreasurerRow) (treasury.TreasurerRow, error) {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO treasurers (id, user_id, name) VALUES ($1, $2, $3) RETURNING id`,
		row.ID, row.UserID, row.Name,
	).Scan(&row.ID)
	if err != nil {
		return treasury.TreasurerRow{}, fmt.Errorf("insert treasurer: %w", err)
	}

	s.publish(ctx, feed.TableTreasurers, row.UserID)
	return row, nil
}

func (s *Store) publish(ctx context.Context, table, ownerID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, table, ownerID); err != nil {
		s.logger.Warn("publish change notification", "table", table, "error", err)
	}
}
