package notification

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, n *Record) error
	// FindLatest returns the most recent record for (userID, t),
	// or nil when none exists.
	FindLatest(ctx context.Context, userID string, t Type) (*Record, error)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, text string) error
}

type Clock interface {
	Now() time.Time
}
