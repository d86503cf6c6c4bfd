package notify

import (
	"context"
	"log/slog"

	"github.com/abgdnv/gocart/internal/cart"
)

// LogNotifier writes notifications to the structured log. Used in dev
// mode when no NATS cluster is available.
type LogNotifier struct {
	logger *slog.Logger
}

var _ cart.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, message string, severity cart.Severity) {
	switch severity {
	case cart.SeverityError:
		n.logger.ErrorContext(ctx, message)
	case cart.SeverityWarn:
		n.logger.WarnContext(ctx, message)
	default:
		n.logger.InfoContext(ctx, message)
	}
}
