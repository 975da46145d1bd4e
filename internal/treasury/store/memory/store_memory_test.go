package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	feed  *feed.MemoryFeed
	store *Store
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.feed = feed.NewMemoryFeed()
	s.store = New(s.feed)
}

func (s *MemoryStoreSuite) entryRow(owner, date string) treasury.EntryRow {
	return treasury.EntryRow{
		UserID:        owner,
		Type:          "income",
		Category:      "dizimo",
		Amount:        "100.00",
		Date:          date,
		TreasurerName: "Ana",
	}
}

func (s *MemoryStoreSuite) TestInsertAssignsID() {
	row, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", "2026-08-28"))
	s.Require().NoError(err)
	s.NotEmpty(row.ID)
}

func (s *MemoryStoreSuite) TestQueryEntriesOrderedByDateDescending() {
	for _, date := range []string{"2026-01-15", "2026-08-28", "2025-12-01"} {
		_, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", date))
		s.Require().NoError(err)
	}

	rows, err := s.store.QueryEntries(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("2026-08-28", rows[0].Date)
	s.Equal("2026-01-15", rows[1].Date)
	s.Equal("2025-12-01", rows[2].Date)
}

func (s *MemoryStoreSuite) TestQueryEntriesScopedToOwner() {
	_, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", "2026-08-28"))
	s.Require().NoError(err)
	_, err = s.store.InsertEntry(s.ctx, s.entryRow("owner-2", "2026-08-28"))
	s.Require().NoError(err)

	rows, err := s.store.QueryEntries(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal("owner-1", rows[0].UserID)
}

func (s *MemoryStoreSuite) TestDeleteEntry() {
	row, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", "2026-08-28"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteEntry(s.ctx, "owner-1", row.ID))

	rows, err := s.store.QueryEntries(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *MemoryStoreSuite) TestDeleteEntryMissIsNotFound() {
	s.ErrorIs(s.store.DeleteEntry(s.ctx, "owner-1", "nope"), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestDeleteEntryOtherOwnerIsNotFound() {
	row, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", "2026-08-28"))
	s.Require().NoError(err)

	s.ErrorIs(s.store.DeleteEntry(s.ctx, "owner-2", row.ID), sentinel.ErrNotFound)

	rows, err := s.store.QueryEntries(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Len(rows, 1, "another owner's delete must not remove the row")
}

func (s *MemoryStoreSuite) TestQueryTreasurersOrderedByName() {
	for _, name := range []string{"carla", "Ana", "Beatriz"} {
		_, err := s.store.InsertTreasurer(s.ctx, treasury.TreasurerRow{UserID: "owner-1", Name: name})
		s.Require().NoError(err)
	}

	rows, err := s.store.QueryTreasurers(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("Ana", rows[0].Name)
	s.Equal("Beatriz", rows[1].Name)
	s.Equal("carla", rows[2].Name)
}

func (s *MemoryStoreSuite) TestMutationsPublishChangeNotifications() {
	sub, err := s.feed.Subscribe(s.ctx, feed.TableEntries, "owner-1")
	s.Require().NoError(err)
	defer sub.Close()

	row, err := s.store.InsertEntry(s.ctx, s.entryRow("owner-1", "2026-08-28"))
	s.Require().NoError(err)

	select {
	case <-sub.Notifications():
	case <-time.After(time.Second):
		s.Fail("expected a notification after insert")
	}

	s.Require().NoError(s.store.DeleteEntry(s.ctx, "owner-1", row.ID))

	select {
	case <-sub.Notifications():
	case <-time.After(time.Second):
		s.Fail("expected a notification after delete")
	}
}
