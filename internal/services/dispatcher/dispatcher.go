package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
	"github.com/chamasoft/notify-engine/internal/domain/profile"
)

// ErrRecipientNotFound aborts a whole dispatch call; every other failure is
// per-channel and non-fatal.
var ErrRecipientNotFound = errors.New("recipient not found")

type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
}

type Store interface {
	Create(ctx context.Context, n *notification.Record) error
}

// Dispatcher resolves the enabled channels for an event, persists the in-app
// record, and attempts delivery on each external channel independently.
// SMS may be nil when no transport is configured.
type Dispatcher struct {
	Profiles    ProfileReader
	Store       Store
	Mail        notification.EmailSender
	SMS         notification.SMSSender
	Log         *zap.Logger
	SendTimeout time.Duration
}

// Dispatch returns the set of channels delivery was attempted on. The in-app
// record is written before any external send so a crash mid-dispatch still
// leaves a queryable notification.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *notification.Event) ([]notification.Channel, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	prof, err := d.Profiles.GetByID(ctx, ev.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrRecipientNotFound, ev.UserID)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	enabled := notification.ResolveChannels(ev.Channels, prof.Prefs, ev.Type)
	log := d.Log.With(zap.String("user_id", ev.UserID), zap.String("type", ev.Type.String()))
	if len(enabled) == 0 {
		log.Debug("no channels enabled for recipient")
		return enabled, nil
	}

	if hasChannel(enabled, notification.ChannelInApp) {
		rec := &notification.Record{
			UserID:   ev.UserID,
			Title:    ev.Title,
			Message:  ev.Message,
			Type:     ev.Type,
			Channels: enabled,
			GroupID:  ev.GroupID,
			Metadata: ev.Metadata,
		}
		if err := d.Store.Create(ctx, rec); err != nil {
			log.Error("create in-app notification", zap.Error(err))
		}
	}

	if hasChannel(enabled, notification.ChannelEmail) {
		switch {
		case prof.Email == "":
			log.Debug("recipient has no email address")
		default:
			if err := d.sendEmail(ctx, prof.Email, ev); err != nil {
				log.Error("email send failed", zap.Error(err))
			}
		}
	}

	if hasChannel(enabled, notification.ChannelSMS) {
		switch {
		case prof.PhoneNumber == "":
			log.Debug("recipient has no phone number")
		case d.SMS == nil:
			// Running without an SMS transport is a supported configuration.
			log.Debug("sms transport not configured; skipping")
		default:
			if err := d.sendSMS(ctx, prof.PhoneNumber, ev.Message); err != nil {
				log.Error("sms send failed", zap.Error(err))
			}
		}
	}

	return enabled, nil
}

func (d *Dispatcher) sendEmail(ctx context.Context, to string, ev *notification.Event) error {
	ctx, cancel := d.sendCtx(ctx)
	defer cancel()
	return d.Mail.Send(ctx, to, ev.Title, renderHTML(ev.Title, ev.Message))
}

func (d *Dispatcher) sendSMS(ctx context.Context, to, text string) error {
	ctx, cancel := d.sendCtx(ctx)
	defer cancel()
	return d.SMS.Send(ctx, to, text)
}

func (d *Dispatcher) sendCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.SendTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.SendTimeout)
}

func hasChannel(chs []notification.Channel, c notification.Channel) bool {
	for _, x := range chs {
		if x == c {
			return true
		}
	}
	return false
}

func renderHTML(title, message string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #16a34a;">%s</h2>
  <p>%s</p>
  <p style="color: #666; font-size: 14px; margin-top: 20px;">
    This notification was sent from your Chama Savings account.
  </p>
</div>`, html.EscapeString(title), html.EscapeString(message))
}
