package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/gocart/pkg/messaging"
	"github.com/google/uuid"
)

// CartNotificationEvent carries one human-readable cart outcome message
// for a display layer to consume.
type CartNotificationEvent struct {
	ID         uuid.UUID `json:"id"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e CartNotificationEvent) Subject() string {
	return messaging.CartNotificationsSubject
}

func (e CartNotificationEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
