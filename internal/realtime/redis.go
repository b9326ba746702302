package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the redis pub/sub channel shared by all instances.
const DefaultChannel = "okr-tracker:events"

// RedisPublisher publishes events on a redis channel. Every instance runs
// Relay to deliver what it receives to its own hub, so a change made on one
// instance reaches clients connected to any of them.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
	logger  *slog.Logger

	onReceive func(Event)
}

// NewRedisPublisher connects to url and checks the connection.
func NewRedisPublisher(ctx context.Context, url string, hub *Hub, logger *slog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisPublisherWithClient(rdb, hub, logger), nil
}

func NewRedisPublisherWithClient(rdb *redis.Client, hub *Hub, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, channel: DefaultChannel, hub: hub, logger: logger}
}

// OnReceive registers fn to run for every relayed event before it reaches
// the hub. Must be called before Relay.
func (p *RedisPublisher) OnReceive(fn func(Event)) {
	p.onReceive = fn
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Relay delivers events received on the channel to the local hub until ctx
// is cancelled.
func (p *RedisPublisher) Relay(ctx context.Context) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", p.channel, err)
	}
	p.logger.Info("relaying change events", slog.String("channel", p.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				p.logger.Warn("dropping malformed event", slog.String("error", err.Error()))
				continue
			}
			if p.onReceive != nil {
				p.onReceive(event)
			}
			p.hub.Deliver(event)
		}
	}
}

// Ping checks connectivity.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
