package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel carrying album IDs whose aggregate changed.
const rankingsChannel = "rankings:changed"

// RankingNotifier fans rating commits out to ranking subscribers. Publishers
// fire after the store transaction commits; subscribers see the latest state
// when they recompute, not every intermediate one.
type RankingNotifier interface {
	PublishAlbumChanged(ctx context.Context, albumID string) error
	// Subscribe returns a channel of changed album IDs and a cancel func the
	// caller must invoke on teardown.
	Subscribe(ctx context.Context) (<-chan string, func(), error)
	Close() error
}

type redisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisNotifier connects to Redis and verifies the connection
func NewRedisNotifier(addr, password string, logger *slog.Logger) (RankingNotifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisNotifier{client: rdb, logger: logger}, nil
}

func (n *redisNotifier) PublishAlbumChanged(ctx context.Context, albumID string) error {
	if err := n.client.Publish(ctx, rankingsChannel, albumID).Err(); err != nil {
		return fmt.Errorf("publish ranking change: %w", err)
	}
	return nil
}

func (n *redisNotifier) Subscribe(ctx context.Context) (<-chan string, func(), error) {
	sub := n.client.Subscribe(ctx, rankingsChannel)

	// force the subscription to be established before returning
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("subscribe rankings channel: %w", err)
	}

	out := make(chan string, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					// subscriber is slow; it will recompute from the latest
					// snapshot anyway, dropping intermediate IDs is fine
					n.logger.Warn("ranking subscriber lagging, dropping notification")
				}
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		close(done)
		sub.Close()
	}
	return out, cancel, nil
}

func (n *redisNotifier) Close() error {
	return n.client.Close()
}
