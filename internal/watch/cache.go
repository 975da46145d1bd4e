// Package watch keeps a local snapshot of a remote collection consistent
// with its authoritative counterpart. Two triggers refresh the snapshot:
// explicit refresh requests after mutations, and change-feed notifications.
// Items are only ever replaced wholesale by a completed fetch - never patched
// incrementally and never speculatively updated by a pending mutation.
package watch

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/pkg/apperrors"
)

// State is the load state of a watched collection.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is an immutable view of a watched collection. Items always reflect
// the most recently completed successful fetch for the owner - or, while
// Stale is true, a non-authoritative boot-cache hint shown during the first
// load.
type Snapshot[T any] struct {
	OwnerID string
	Items   []T
	State   State
	Err     error
	Stale   bool
}

// IdleSnapshot is the view served while no identity is attached. No cache
// instance exists in this state; the constructor refuses an absent owner.
func IdleSnapshot[T any]() Snapshot[T] {
	return Snapshot[T]{State: StateIdle}
}

// Fetcher pulls the full remote collection filtered to ownerID.
type Fetcher[T any] func(ctx context.Context, ownerID string) ([]T, error)

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithLogger attaches a structured logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Cache[T]) { c.logger = logger }
}

// WithBootCache attaches an optional last-known-snapshot store. The hint is
// surfaced as stale items during the first load and overwritten by the first
// successful fetch.
func WithBootCache[T any](boot BootCache) Option[T] {
	return func(c *Cache[T]) { c.boot = boot }
}

// WithOnChange registers a callback invoked (outside the cache lock) after
// every snapshot change.
func WithOnChange[T any](fn func(Snapshot[T])) Option[T] {
	return func(c *Cache[T]) { c.onChange = fn }
}

// Cache is one watched collection instance, exclusively owned by the view
// that attached it. Cross-view consistency flows through the change-feed,
// never through shared memory.
type Cache[T any] struct {
	table   string
	ownerID string
	fetch   Fetcher[T]

	logger   *slog.Logger
	boot     BootCache
	onChange func(Snapshot[T])

	ctx    context.Context
	cancel context.CancelFunc
	sub    feed.Subscription

	mu       sync.Mutex
	state    State
	items    []T
	err      error
	stale    bool
	seq      uint64 // sequence of the most recently issued fetch
	inFlight bool
	pending  bool
	detached bool
}

// Attach creates a cache scoped to ownerID, loads the boot hint if present,
// opens the change-feed subscription and issues the initial fetch. An absent
// owner id is a programming error caught here, before any network activity:
// the "not logged in" state is represented by not constructing a cache at
// all.
func Attach[T any](ctx context.Context, table, ownerID string, fetch Fetcher[T], f feed.Feed, opts ...Option[T]) (*Cache[T], error) {
	if ownerID == "" {
		return nil, apperrors.New(apperrors.CodeScopeMismatch, "cache requires a present owner id")
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &Cache[T]{
		table:   table,
		ownerID: ownerID,
		fetch:   fetch,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:     cctx,
		cancel:  cancel,
		state:   StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.boot != nil {
		if items, ok := loadBootHint[T](cctx, c.boot, table, ownerID); ok {
			c.items = items
			c.stale = true
		}
	}

	sub, err := f.Subscribe(cctx, table, ownerID)
	if err != nil {
		cancel()
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "open change-feed subscription")
	}
	c.sub = sub
	go c.watchFeed()

	c.Refresh()
	return c, nil
}

// watchFeed turns change notifications into refreshes until the subscription
// closes. A notification for a detached cache is dropped inside Refresh.
func (c *Cache[T]) watchFeed() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case _, ok := <-c.sub.Notifications():
			if !ok {
				return
			}
			feedNotifications.WithLabelValues(c.table).Inc()
			c.Refresh()
		}
	}
}

// Refresh re-pulls the remote collection. At most one fetch is in flight per
// cache; a refresh requested meanwhile collapses into a single trailing
// fetch. Works from Ready, Failed (manual retry) and the initial Loading.
func (c *Cache[T]) Refresh() {
	c.mu.Lock()
	if c.detached {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.pending = true
		fetchesCoalesced.WithLabelValues(c.table).Inc()
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.seq++
	seq := c.seq
	c.state = StateLoading
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	go c.runFetch(seq)
}

func (c *Cache[T]) runFetch(seq uint64) {
	fetches.WithLabelValues(c.table).Inc()
	items, err := c.fetch(c.ctx, c.ownerID)

	c.mu.Lock()
	if c.detached {
		// Late callback after detach is a no-op, not an error.
		c.mu.Unlock()
		return
	}
	if seq != c.seq {
		// An older fetch completing after a newer one was issued must not
		// overwrite the newer result.
		staleFetchesDiscarded.WithLabelValues(c.table).Inc()
		c.mu.Unlock()
		return
	}
	c.inFlight = false
	pending := c.pending
	c.pending = false

	if err != nil {
		// Stale-but-available over empty: the previous items stay untouched.
		c.err = apperrors.Wrap(err, apperrors.CodeFetchFailed, "fetch "+c.table)
		c.state = StateFailed
		fetchFailures.WithLabelValues(c.table).Inc()
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.Warn("collection fetch failed",
			"table", c.table, "owner_id", c.ownerID, "error", err)
		c.notify(snap)
		if pending {
			c.Refresh()
		}
		return
	}

	c.items = items
	c.err = nil
	c.state = StateReady
	c.stale = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.boot != nil {
		// Write-through: the fresh snapshot replaces (and thereby
		// invalidates) any boot hint.
		storeBootHint(c.ctx, c.boot, c.table, c.ownerID, items, c.logger)
	}
	c.notify(snap)
	if pending {
		c.Refresh()
	}
}

// Mutate runs a confirmed write against the remote store and, on success,
// triggers a coalesced refresh. The intent is never applied to local items:
// the next completed fetch is the single reconciliation path, so a mutation
// and the feed notification it causes cannot produce divergent state.
func (c *Cache[T]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	c.mu.Lock()
	detached := c.detached
	c.mu.Unlock()
	if detached {
		return apperrors.New(apperrors.CodeScopeMismatch, "cache detached")
	}

	if err := op(ctx); err != nil {
		return err
	}
	c.Refresh()
	return nil
}

// Detach closes the change-feed subscription and freezes the cache. Mandatory
// when the owner id changes or the owning view leaves scope - a subscription
// bound to a previous owner is a resource leak and a potential cross-session
// data leak. Fetches and notifications landing afterwards are dropped.
func (c *Cache[T]) Detach() {
	c.mu.Lock()
	if c.detached {
		c.mu.Unlock()
		return
	}
	c.detached = true
	sub := c.sub
	c.mu.Unlock()

	c.cancel()
	if sub != nil {
		_ = sub.Close()
	}
}

// Snapshot returns the current collection view. The items slice is copied so
// readers cannot mutate cache state.
func (c *Cache[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OwnerID returns the scope this cache was attached with.
func (c *Cache[T]) OwnerID() string { return c.ownerID }

func (c *Cache[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		OwnerID: c.ownerID,
		Items:   items,
		State:   c.state,
		Err:     c.err,
		Stale:   c.stale,
	}
}

func (c *Cache[T]) notify(snap Snapshot[T]) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}
