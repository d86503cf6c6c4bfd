// Package notify provides cart.Notifier implementations. Notifications
// are outcome signals for a human-facing display layer; they are never
// part of control flow.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/abgdnv/gocart/pkg/messaging"
	"github.com/abgdnv/gocart/pkg/messaging/events"
	"github.com/google/uuid"
)

// NatsNotifier publishes cart outcome messages to the notification
// stream. Publish failures are logged and swallowed: losing a toast is
// acceptable, failing a cart operation over it is not.
type NatsNotifier struct {
	publisher messaging.Publisher
	logger    *slog.Logger
}

var _ cart.Notifier = (*NatsNotifier)(nil)

// NewNatsNotifier creates a notifier backed by the given publisher.
func NewNatsNotifier(publisher messaging.Publisher, logger *slog.Logger) *NatsNotifier {
	return &NatsNotifier{
		publisher: publisher,
		logger:    logger.With("component", "notifier"),
	}
}

// Notify publishes one notification event.
func (n *NatsNotifier) Notify(ctx context.Context, message string, severity cart.Severity) {
	event := events.CartNotificationEvent{
		ID:         uuid.New(),
		Message:    message,
		Severity:   string(severity),
		OccurredAt: time.Now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish cart notification", "message", message, "error", err)
	}
}
