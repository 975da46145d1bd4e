// Package feed defines the change-feed port: a subscribe/notify channel
// signaling that rows matching a table+owner filter changed. Notifications
// carry no payload - the feed is a coarse invalidation signal, never a diff
// source. Consumers re-pull ground truth from the remote store.
package feed

import "context"

// Watched collection names, matching the remote store tables.
const (
	TableEntries    = "financial_entries"
	TableTreasurers = "treasurers"
)

// Feed is the consuming side of the change-feed.
type Feed interface {
	// Subscribe opens a notification stream for rows of table owned by
	// ownerID. The subscription lives until Close or ctx cancellation.
	Subscribe(ctx context.Context, table, ownerID string) (Subscription, error)
}

// Publisher is the emitting side, invoked by store adapters after a mutation
// is confirmed by the authoritative store.
type Publisher interface {
	Publish(ctx context.Context, table, ownerID string) error
}

// Subscription delivers payloadless change notifications. Notifications is
// closed when the subscription ends; a notification arriving after Close must
// be treated as a no-op by consumers.
type Subscription interface {
	Notifications() <-chan struct{}
	Close() error
}
