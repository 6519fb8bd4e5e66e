package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aidar/walking-buddies/internal/events"
	"github.com/aidar/walking-buddies/internal/observability"
)

// ActivityHook is notified after a user's activity has been written to the ledger
type ActivityHook interface {
	AfterActivity(ctx context.Context, userID string)
}

// notifier fans out post-commit side effects: events and activity hooks.
// Failures here never undo the committed write, they are only logged.
type notifier struct {
	publisher events.Publisher
	hooks     []ActivityHook
	logger    *slog.Logger
}

func newNotifier(publisher events.Publisher, logger *slog.Logger) notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return notifier{publisher: publisher, logger: logger}
}

func (n *notifier) publish(ctx context.Context, eventType, key string, payload any) {
	err := n.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		n.logger.Warn("failed to publish event", "type", eventType, "key", key, "error", err)
	}
}

func (n *notifier) rewardGranted(ctx context.Context, userID, source string, points int) {
	observability.ObserveReward(source)
	n.publish(ctx, events.TypeRewardGranted, userID, map[string]any{
		"user_id": userID,
		"source":  source,
		"points":  points,
	})
}

func (n *notifier) afterActivity(ctx context.Context, userID string) {
	for _, hook := range n.hooks {
		hook.AfterActivity(ctx, userID)
	}
}

// Subscribe registers a hook called after each committed activity
func (n *notifier) Subscribe(hook ActivityHook) {
	n.hooks = append(n.hooks, hook)
}
