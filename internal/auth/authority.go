package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth/models"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/metrics"
)

// Navigator is the route side-effect port. The core triggers navigation but
// never owns URL or history state; the presentation layer implements this.
type Navigator interface {
	CurrentPath() string
	NavigateTo(path string)
}

// Snapshot is the immutable view of the session state handed to readers.
type Snapshot struct {
	Status  models.Status
	Session models.Session
}

// Transition is the pure mapping from an incoming provider session and the
// current path to the resolved snapshot and navigation side effect. Both the
// initial probe and every lifecycle event funnel through here, so behavior is
// identical whether the session was already there or just changed.
func Transition(incoming models.Session, currentPath string) (Snapshot, Navigation) {
	status := models.StatusAbsent
	if incoming.Present() {
		status = models.StatusPresent
	}
	snap := Snapshot{Status: status, Session: incoming}
	return snap, DecideNavigation(incoming.Present(), currentPath)
}

// Authority owns the single source of truth for "who is logged in". It is the
// only writer of the session value; readers get snapshots plus a subscribe
// capability, never mutation rights.
type Authority struct {
	provider Provider
	nav      Navigator
	logger   *slog.Logger
	metrics  *metrics.Metrics

	mu          sync.Mutex
	snap        Snapshot
	subscribers map[int]chan Snapshot
	nextSubID   int
	unsubscribe func()
	started     bool
	stopped     bool
}

// NewAuthority builds an authority in the Unresolved state. Metrics may be
// nil in tests.
func NewAuthority(provider Provider, nav Navigator, logger *slog.Logger, m *metrics.Metrics) *Authority {
	return &Authority{
		provider:    provider,
		nav:         nav,
		logger:      logger,
		metrics:     m,
		snap:        Snapshot{Status: models.StatusUnresolved},
		subscribers: make(map[int]chan Snapshot),
	}
}

// Start registers the lifecycle listener and issues the one initial probe for
// a session established before this process existed. A probe failure resolves
// the status to Absent (fail-closed) rather than leaving it Unresolved: an
// unresolved session must never be treated as signed in.
func (a *Authority) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	// Listener first, so a change racing the probe is not lost.
	unsubscribe := a.provider.OnLifecycleEvent(func(ev models.LifecycleEvent) {
		a.apply(ev.Session)
	})
	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()

	session, err := a.provider.ProbeCurrentSession(ctx)
	if err != nil {
		a.logger.Warn("auth provider unreachable during initial probe, resolving session absent",
			"error", err)
		a.countResolved("fail_closed")
		a.apply(models.Session{})
		return
	}
	if session.Present() {
		a.countResolved("present")
	} else {
		a.countResolved("absent")
	}
	a.apply(session)
}

// Teardown unregisters the provider listener and closes subscriber channels.
// Safe to call once per Start; later lifecycle callbacks become no-ops.
func (a *Authority) Teardown() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	subs := a.subscribers
	a.subscribers = make(map[int]chan Snapshot)
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	for _, ch := range subs {
		close(ch)
	}
}

// Snapshot returns the current session view.
func (a *Authority) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Subscribe returns a channel receiving session snapshots and a cancel
// function. The channel holds the latest snapshot only; slow readers see the
// newest state, not every intermediate one.
func (a *Authority) Subscribe() (<-chan Snapshot, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSubID
	a.nextSubID++
	ch := make(chan Snapshot, 1)
	a.subscribers[id] = ch

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if sub, ok := a.subscribers[id]; ok {
			delete(a.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// SignOut asks the provider to end the current session. The resulting
// signed-out lifecycle event drives the state change; nothing is reset here.
func (a *Authority) SignOut(ctx context.Context) error {
	if err := a.provider.EndSession(ctx); err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.SignOuts.Inc()
	}
	return nil
}

// apply funnels a provider session through Transition and performs the
// navigation side effect. Events arriving after Teardown are discarded.
func (a *Authority) apply(incoming models.Session) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	snap, nav := Transition(incoming, a.nav.CurrentPath())
	a.snap = snap

	for _, ch := range a.subscribers {
		// Latest-wins delivery: drop the stale buffered snapshot if the
		// subscriber has not drained it yet.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	a.mu.Unlock()

	if nav.Redirect {
		a.nav.NavigateTo(nav.To)
	}
}

func (a *Authority) countResolved(outcome string) {
	if a.metrics != nil {
		a.metrics.SessionsResolved.WithLabelValues(outcome).Inc()
	}
}
