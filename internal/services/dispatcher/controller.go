package dispatcher

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
	kafkarepo "github.com/chamasoft/notify-engine/internal/repository/kafka"
)

// EventHandler adapts the dispatcher to the kafka consumer. Invalid events
// and unknown recipients are logged and committed rather than retried; the
// message will never become processable.
func EventHandler(d *Dispatcher, log *zap.Logger) kafkarepo.Handler {
	return kafkarepo.JSONHandler(func(ctx context.Context, key []byte, ev *notification.Event) error {
		sent, err := d.Dispatch(ctx, ev)
		switch {
		case errors.Is(err, notification.ErrValidation), errors.Is(err, ErrRecipientNotFound):
			log.Warn("dropping undeliverable event",
				zap.ByteString("key", key), zap.Error(err))
			return nil
		case err != nil:
			return err
		}
		log.Info("event dispatched",
			zap.String("user_id", ev.UserID),
			zap.String("type", ev.Type.String()),
			zap.Int("channels", len(sent)))
		return nil
	})
}
