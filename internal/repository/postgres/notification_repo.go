package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (user_id, title, message, notification_type, channels, group_id, metadata)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, '{}'::jsonb))
RETURNING id, created_at;`

	qNotifLatest = `
SELECT id, user_id, title, message, notification_type, channels, group_id, metadata, created_at
FROM notifications
WHERE user_id = $1 AND notification_type = $2
ORDER BY created_at DESC
LIMIT 1;`
)

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Record) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qNotifInsert,
		n.UserID,
		n.Title,
		n.Message,
		string(n.Type),
		channelStrings(n.Channels),
		nullStr(n.GroupID),
		n.Metadata,
	).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) FindLatest(ctx context.Context, userID string, t notification.Type) (*notification.Record, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		n        notification.Record
		typ      string
		channels []string
		groupID  *string
	)
	err := r.db.Pool.QueryRow(ctx, qNotifLatest, userID, string(t)).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &channels, &groupID, &n.Metadata, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest notification: %w", err)
	}
	n.Type = notification.Type(typ)
	n.Channels = parseChannels(channels)
	n.GroupID = strOrEmpty(groupID)
	return &n, nil
}

func channelStrings(chs []notification.Channel) []string {
	out := make([]string, len(chs))
	for i, c := range chs {
		out[i] = string(c)
	}
	return out
}

func parseChannels(ss []string) []notification.Channel {
	out := make([]notification.Channel, len(ss))
	for i, s := range ss {
		out[i] = notification.Channel(s)
	}
	return out
}
