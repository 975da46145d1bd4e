package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Channel prefix for change notifications.
const redisChannelPrefix = "feed:"

// RedisFeed carries change notifications over redis pub/sub so every client
// watching the same owner's rows converges, whichever process performed the
// mutation. One channel per table+owner mirrors the remote store's row filter.
type RedisFeed struct {
	client *redis.Client
}

// NewRedisFeed wraps a connected redis client.
func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func redisChannel(table, ownerID string) string {
	return fmt.Sprintf("%s%s:%s", redisChannelPrefix, table, ownerID)
}

// Publish signals that rows of table owned by ownerID changed. The message
// body is ignored by subscribers; only the delivery matters.
func (f *RedisFeed) Publish(ctx context.Context, table, ownerID string) error {
	return f.client.Publish(ctx, redisChannel(table, ownerID), "1").Err()
}

// Subscribe opens a pub/sub subscription scoped to table+owner. Message
// payloads are discarded on arrival; bursts coalesce into one pending
// notification.
func (f *RedisFeed) Subscribe(ctx context.Context, table, ownerID string) (Subscription, error) {
	pubsub := f.client.Subscribe(ctx, redisChannel(table, ownerID))

	// Force the subscription onto the wire before returning so a publish
	// issued right after Subscribe is not missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", redisChannel(table, ownerID), err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan struct{}, 1),
	}
	go sub.pump(pubsub.Channel())
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan struct{}
	once   sync.Once
}

func (s *redisSubscription) pump(messages <-chan *redis.Message) {
	for range messages {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
	s.once.Do(func() { close(s.ch) })
}

func (s *redisSubscription) Notifications() <-chan struct{} { return s.ch }

func (s *redisSubscription) Close() error {
	// Closing the pubsub ends the message channel, which lets pump close ch.
	return s.pubsub.Close()
}
