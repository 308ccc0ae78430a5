package kafka

import (
	"context"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
)

// NotificationEventsKafka publishes dispatch requests for asynchronous
// delivery; the dispatcher service consumes them on the other side.
type NotificationEventsKafka struct {
	p *Producer
}

func NewNotificationEventsKafka(p *Producer) *NotificationEventsKafka {
	return &NotificationEventsKafka{p: p}
}

// PublishDispatchRequested keys by recipient so one user's events stay on one
// partition and are consumed in order.
func (e *NotificationEventsKafka) PublishDispatchRequested(ctx context.Context, ev *notification.Event) error {
	return e.p.PublishJSON(ctx, []byte(ev.UserID), ev)
}
