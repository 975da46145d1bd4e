// Package service binds the session identity to the two watched collections
// and exposes the callable intents the presentation layer dispatches. Each
// cache instance is owned here; an identity change tears the old instances
// down before new ones are attached.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/metrics"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/watch"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/sentinel"
)

// Service holds the per-identity cache pair and the caller's treasurer
// selection. Mutations flow through the caches to the remote store and are
// never applied locally; the change-feed (or the post-mutation refresh) pulls
// ground truth back.
type Service struct {
	authority *auth.Authority
	store     treasury.Store
	feed      feed.Feed
	boot      watch.BootCache // nil disables the boot hint
	logger    *slog.Logger
	metrics   *metrics.Metrics // nil in tests

	mu                sync.Mutex
	ownerID           string
	entries           *watch.Cache[treasury.Entry]
	treasurers        *watch.Cache[treasury.Treasurer]
	selectedTreasurer string
}

// New wires the service. boot and m may be nil.
func New(authority *auth.Authority, store treasury.Store, f feed.Feed, boot watch.BootCache, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		authority: authority,
		store:     store,
		feed:      f,
		boot:      boot,
		logger:    logger,
		metrics:   m,
	}
}

// Run follows the session authority and retargets the caches whenever the
// identity changes. Blocks until ctx is done; meant for an errgroup.
func (s *Service) Run(ctx context.Context) error {
	snaps, cancel := s.authority.Subscribe()
	defer cancel()

	s.retarget(ctx, s.authority.Snapshot())
	for {
		select {
		case <-ctx.Done():
			s.retarget(ctx, auth.Snapshot{})
			return nil
		case snap, ok := <-snaps:
			if !ok {
				s.retarget(ctx, auth.Snapshot{})
				return nil
			}
			s.retarget(ctx, snap)
		}
	}
}

// retarget tears down the caches bound to the previous owner and, when the
// new identity is present, attaches fresh ones. Teardown of the old
// subscription is a mandatory side effect of the identity change, not an
// optional cleanup.
func (s *Service) retarget(ctx context.Context, snap auth.Snapshot) {
	owner := ""
	if snap.Status.Resolved() && snap.Session.Present() {
		owner = snap.Session.UserID
	}

	s.mu.Lock()
	if owner == s.ownerID {
		s.mu.Unlock()
		return
	}
	oldEntries, oldTreasurers := s.entries, s.treasurers
	s.entries, s.treasurers = nil, nil
	s.ownerID = owner
	s.selectedTreasurer = ""
	s.mu.Unlock()

	if oldEntries != nil {
		oldEntries.Detach()
	}
	if oldTreasurers != nil {
		oldTreasurers.Detach()
	}
	if owner == "" {
		return
	}

	entries, err := watch.Attach(ctx, feed.TableEntries, owner, s.fetchEntries, s.feed,
		watch.WithLogger[treasury.Entry](s.logger), s.entryBootOption())
	if err != nil {
		s.logger.Error("attach entries cache", "owner_id", owner, "error", err)
		return
	}
	treasurers, err := watch.Attach(ctx, feed.TableTreasurers, owner, s.fetchTreasurers, s.feed,
		watch.WithLogger[treasury.Treasurer](s.logger), s.treasurerBootOption())
	if err != nil {
		s.logger.Error("attach treasurers cache", "owner_id", owner, "error", err)
		entries.Detach()
		return
	}

	s.mu.Lock()
	if s.ownerID != owner {
		// Identity moved again while attaching; these instances are stale.
		s.mu.Unlock()
		entries.Detach()
		treasurers.Detach()
		return
	}
	s.entries = entries
	s.treasurers = treasurers
	s.mu.Unlock()
}

func (s *Service) entryBootOption() watch.Option[treasury.Entry] {
	if s.boot == nil {
		return func(*watch.Cache[treasury.Entry]) {}
	}
	return watch.WithBootCache[treasury.Entry](s.boot)
}

func (s *Service) treasurerBootOption() watch.Option[treasury.Treasurer] {
	if s.boot == nil {
		return func(*watch.Cache[treasury.Treasurer]) {}
	}
	return watch.WithBootCache[treasury.Treasurer](s.boot)
}

func (s *Service) fetchEntries(ctx context.Context, ownerID string) ([]treasury.Entry, error) {
	rows, err := s.store.QueryEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]treasury.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := treasury.EntryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Service) fetchTreasurers(ctx context.Context, ownerID string) ([]treasury.Treasurer, error) {
	rows, err := s.store.QueryTreasurers(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]treasury.Treasurer, 0, len(rows))
	for _, row := range rows {
		out = append(out, treasury.TreasurerFromRow(row))
	}
	return out, nil
}

// Session returns the current session snapshot.
func (s *Service) Session() auth.Snapshot { return s.authority.Snapshot() }

// Entries returns the ledger collection snapshot; Idle while signed out.
func (s *Service) Entries() watch.Snapshot[treasury.Entry] {
	s.mu.Lock()
	cache := s.entries
	s.mu.Unlock()
	if cache == nil {
		return watch.IdleSnapshot[treasury.Entry]()
	}
	return cache.Snapshot()
}

// Treasurers returns the directory snapshot; Idle while signed out.
func (s *Service) Treasurers() watch.Snapshot[treasury.Treasurer] {
	s.mu.Lock()
	cache := s.treasurers
	s.mu.Unlock()
	if cache == nil {
		return watch.IdleSnapshot[treasury.Treasurer]()
	}
	return cache.Snapshot()
}

// SelectedTreasurer returns the caller's current directory selection.
func (s *Service) SelectedTreasurer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTreasurer
}

// Summary totals the current entries snapshot.
func (s *Service) Summary() treasury.Summary {
	return treasury.Summarize(s.Entries().Items)
}

// RefreshEntries is the manual retry affordance for a Failed collection.
func (s *Service) RefreshEntries() {
	s.mu.Lock()
	cache := s.entries
	s.mu.Unlock()
	if cache != nil {
		cache.Refresh()
	}
}

// AddEntryInput is the domain-shaped write intent for a new ledger entry.
type AddEntryInput struct {
	Direction          string
	Category           string
	Amount             string
	OccurredOn         string // ISO-8601 calendar date
	Note               string
	CounterpartyName   string
	RecorderName       string
	DeputyRecorderName string
}

// AddEntry validates the intent, submits it to the remote store and refreshes
// the collection. The intent is never applied to local items. A rejected
// mutation leaves the collection state unchanged and comes back inline to the
// caller.
func (s *Service) AddEntry(ctx context.Context, input AddEntryInput) (treasury.Entry, error) {
	cache, owner, err := s.entriesCache()
	if err != nil {
		return treasury.Entry{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil {
		return treasury.Entry{}, apperrors.New(apperrors.CodeInvalidInput, "amount must be a valid number")
	}
	occurredOn, err := time.ParseInLocation(treasury.WireDateFormat, input.OccurredOn, time.UTC)
	if err != nil {
		return treasury.Entry{}, apperrors.New(apperrors.CodeInvalidInput, "date must be YYYY-MM-DD")
	}

	entry := treasury.Entry{
		OwnerID:            owner,
		Direction:          treasury.Direction(input.Direction),
		Category:           treasury.Category(input.Category),
		Amount:             treasury.NormalizeAmount(amount),
		OccurredOn:         occurredOn,
		Note:               strings.TrimSpace(input.Note),
		CounterpartyName:   strings.TrimSpace(input.CounterpartyName),
		RecorderName:       strings.TrimSpace(input.RecorderName),
		DeputyRecorderName: strings.TrimSpace(input.DeputyRecorderName),
	}
	if err := entry.Validate(time.Now().UTC()); err != nil {
		return treasury.Entry{}, err
	}

	var created treasury.Entry
	err = cache.Mutate(ctx, func(ctx context.Context) error {
		inserted, err := s.store.InsertEntry(ctx, treasury.EntryToRow(entry))
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeUnavailable, "insert entry")
		}
		created, err = treasury.EntryFromRow(inserted)
		return err
	})
	if err != nil {
		return treasury.Entry{}, err
	}

	if s.metrics != nil {
		s.metrics.EntriesRecorded.Inc()
	}
	return created, nil
}

// DeleteEntry removes a ledger entry and refreshes the collection.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	cache, owner, err := s.entriesCache()
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "entry id is required")
	}

	err = cache.Mutate(ctx, func(ctx context.Context) error {
		if err := s.store.DeleteEntry(ctx, owner, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "entry not found")
			}
			return apperrors.Wrap(err, apperrors.CodeUnavailable, "delete entry")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.EntriesDeleted.Inc()
	}
	return nil
}

// SelectOrCreateTreasurer selects the named treasurer, inserting the row
// first when absent. On insert the new name is selected directly from the
// insert response - the one sanctioned exception to "never speculatively
// apply", safe because the row's identity comes from the response, not a
// guess. The directory itself still converges through refresh.
func (s *Service) SelectOrCreateTreasurer(ctx context.Context, name string) (treasury.Treasurer, error) {
	cache, owner, err := s.treasurersCache()
	if err != nil {
		return treasury.Treasurer{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return treasury.Treasurer{}, apperrors.New(apperrors.CodeInvalidInput, "treasurer name cannot be empty")
	}

	for _, t := range cache.Snapshot().Items {
		if t.Name == name {
			s.setSelected(name)
			return t, nil
		}
	}

	var created treasury.Treasurer
	err = cache.Mutate(ctx, func(ctx context.Context) error {
		inserted, err := s.store.InsertTreasurer(ctx, treasury.TreasurerToRow(treasury.Treasurer{
			OwnerID: owner,
			Name:    name,
		}))
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeUnavailable, "insert treasurer")
		}
		created = treasury.TreasurerFromRow(inserted)
		return nil
	})
	if err != nil {
		return treasury.Treasurer{}, err
	}

	s.setSelected(created.Name)
	if s.metrics != nil {
		s.metrics.TreasurersCreated.Inc()
	}
	return created, nil
}

// SignOut delegates to the authority; the signed-out lifecycle event then
// drives cache teardown through Run.
func (s *Service) SignOut(ctx context.Context) error {
	return s.authority.SignOut(ctx)
}

func (s *Service) setSelected(name string) {
	s.mu.Lock()
	s.selectedTreasurer = name
	s.mu.Unlock()
}

// entriesCache returns the attached cache or a ScopeMismatch error before any
// network call when no identity is bound.
func (s *Service) entriesCache() (*watch.Cache[treasury.Entry], string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil || s.ownerID == "" {
		return nil, "", apperrors.New(apperrors.CodeScopeMismatch, "no signed-in owner")
	}
	return s.entries, s.ownerID, nil
}

func (s *Service) treasurersCache() (*watch.Cache[treasury.Treasurer], string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.treasurers == nil || s.ownerID == "" {
		return nil, "", apperrors.New(apperrors.CodeScopeMismatch, "no signed-in owner")
	}
	return s.treasurers, s.ownerID, nil
}
