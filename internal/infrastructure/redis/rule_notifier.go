package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/bibbank/collections/internal/domain/port"
)

// DefaultChannel carries transition rule change notices.
const DefaultChannel = "collections:transition-rules:changed"

// Compile-time interface check
var _ port.RuleChangeNotifier = (*RuleNotifier)(nil)

// Refresher reloads cached transition rules.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// NewClient parses url and pings the server. It returns nil when url is
// empty, meaning rule changes are not fanned out.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RuleNotifier publishes rule changes on a Redis channel and refreshes the
// local cache when another replica publishes one.
type RuleNotifier struct {
	client     *goredis.Client
	channel    string
	instanceID string
	logger     *slog.Logger
}

// NewRuleNotifier creates a notifier on channel for this replica.
func NewRuleNotifier(client *goredis.Client, channel string, logger *slog.Logger) *RuleNotifier {
	return &RuleNotifier{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// NotifyRulesChanged announces a rule change to every subscribed replica.
func (n *RuleNotifier) NotifyRulesChanged(ctx context.Context) error {
	if err := n.client.Publish(ctx, n.channel, n.instanceID).Err(); err != nil {
		return fmt.Errorf("publish rule change: %w", err)
	}
	return nil
}

// Subscribe refreshes cache on every notice from another replica until ctx
// is cancelled.
func (n *RuleNotifier) Subscribe(ctx context.Context, cache Refresher) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", n.channel, err)
	}
	n.logger.InfoContext(ctx, "listening for transition rule changes", "channel", n.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n.handle(ctx, msg.Payload, cache)
		}
	}
}

func (n *RuleNotifier) handle(ctx context.Context, sender string, cache Refresher) {
	if sender == n.instanceID {
		return
	}
	if err := cache.Refresh(ctx); err != nil {
		n.logger.WarnContext(ctx, "refresh transition rules after peer change failed",
			"sender", sender,
			"error", err,
		)
		return
	}
	n.logger.InfoContext(ctx, "transition rules refreshed after peer change", "sender", sender)
}
