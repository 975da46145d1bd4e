package feed

import (
	"context"
	"sync"
)

// MemoryFeed is an in-process feed for development and tests. Delivery is
// best-effort with a one-slot buffer per subscriber: bursts coalesce into a
// single pending notification, which is all a refetch-on-notify consumer
// needs.
type MemoryFeed struct {
	mu   sync.Mutex
	subs map[string]map[int]*memorySubscription // keyed by table/owner
	next int
}

// NewMemoryFeed builds an empty in-process feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[string]map[int]*memorySubscription)}
}

func feedKey(table, ownerID string) string { return table + "/" + ownerID }

// Subscribe registers a subscriber for the given table and owner.
func (f *MemoryFeed) Subscribe(ctx context.Context, table, ownerID string) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := feedKey(table, ownerID)
	if f.subs[key] == nil {
		f.subs[key] = make(map[int]*memorySubscription)
	}
	id := f.next
	f.next++

	sub := &memorySubscription{
		ch: make(chan struct{}, 1),
		close: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if s, ok := f.subs[key][id]; ok {
				delete(f.subs[key], id)
				close(s.ch)
			}
		},
	}
	f.subs[key][id] = sub

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			sub.Close()
		}()
	}
	return sub, nil
}

// Publish notifies every subscriber watching table rows of ownerID.
func (f *MemoryFeed) Publish(ctx context.Context, table, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs[feedKey(table, ownerID)] {
		select {
		case sub.ch <- struct{}{}:
		default: // a notification is already pending, nothing gained by another
		}
	}
	return nil
}

type memorySubscription struct {
	ch    chan struct{}
	once  sync.Once
	close func()
}

func (s *memorySubscription) Notifications() <-chan struct{} { return s.ch }

func (s *memorySubscription) Close() error {
	s.once.Do(s.close)
	return nil
}
