// Package messaging defines the event publishing contract shared by the
// cart service and any consumer of its notification stream.
package messaging

import (
	"context"
)

// CartNotificationsSubject is the JetStream subject cart outcome
// notifications are published to.
const CartNotificationsSubject = "cart.notifications"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
