package scanner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/eligibility"
	"github.com/chamasoft/notify-engine/internal/domain/member"
	"github.com/chamasoft/notify-engine/internal/domain/notification"
)

type MembershipReader interface {
	ListActive(ctx context.Context) ([]*member.Member, error)
}

type NotificationLog interface {
	FindLatest(ctx context.Context, userID string, t notification.Type) (*notification.Record, error)
}

// Notifier delivers one event and reports the channels it went out on.
type Notifier interface {
	Dispatch(ctx context.Context, ev *notification.Event) ([]notification.Channel, error)
}

// Report is the outcome of a single scan pass.
type Report struct {
	EligibilityChecked int `json:"eligibilityChecked"`
	NotificationsSent  int `json:"notificationsSent"`
}

// Usecase walks every active membership, asks the oracle whether the member
// qualifies for a loan, and notifies newly eligible members that have not
// been told within the dedup window.
type Usecase struct {
	Members     MembershipReader
	Oracle      eligibility.Oracle
	Log         NotificationLog
	Notifier    Notifier
	Clock       notification.Clock
	DedupWindow time.Duration
	Logger      *zap.Logger
}

// Scan processes memberships one at a time. Per-member failures are logged
// and skipped so a single bad row never sinks the pass.
func (u *Usecase) Scan(ctx context.Context) (*Report, error) {
	tr := otel.Tracer("scanner")
	ctx, span := tr.Start(ctx, "scanner.Scan")
	defer span.End()

	members, err := u.Members.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}

	rep := &Report{}
	cutoff := u.Clock.Now().Add(-u.DedupWindow)

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		u.scanMember(ctx, m, cutoff, rep)
	}

	span.SetAttributes(
		attribute.Int("scanner.eligibility_checked", rep.EligibilityChecked),
		attribute.Int("scanner.notifications_sent", rep.NotificationsSent),
	)
	u.Logger.Info("eligibility scan completed",
		zap.Int("eligibility_checked", rep.EligibilityChecked),
		zap.Int("notifications_sent", rep.NotificationsSent))
	return rep, nil
}

func (u *Usecase) scanMember(ctx context.Context, m *member.Member, cutoff time.Time, rep *Report) {
	log := u.Logger.With(zap.String("user_id", m.UserID), zap.String("group_id", m.GroupID))

	res, err := u.Oracle.Calculate(ctx, m.UserID, m.GroupID)
	if err != nil {
		log.Error("eligibility calculation failed", zap.Error(err))
		return
	}
	rep.EligibilityChecked++

	if !res.IsEligible {
		return
	}

	last, err := u.Log.FindLatest(ctx, m.UserID, notification.TypeLoanEligibility)
	if err != nil {
		// Skip rather than risk a duplicate; the next pass retries.
		log.Error("dedup lookup failed", zap.Error(err))
		return
	}
	if last != nil && !last.CreatedAt.Before(cutoff) {
		log.Debug("recently notified; skipping")
		return
	}

	ev := eligibilityEvent(m, res)
	sent, err := u.Notifier.Dispatch(ctx, ev)
	if err != nil {
		log.Error("notification dispatch failed", zap.Error(err))
		return
	}
	// A dispatch where every channel is disabled delivers nothing.
	if len(sent) == 0 {
		log.Debug("recipient has all channels disabled")
		return
	}
	rep.NotificationsSent++
}

func eligibilityEvent(m *member.Member, res *eligibility.Result) *notification.Event {
	msg := fmt.Sprintf("Great news! You're now eligible for a loan of up to KES %s in %s.",
		formatAmount(res.MaxLoanAmount), m.GroupName)
	if len(res.Reasons) > 0 {
		msg += " " + strings.Join(res.Reasons, ". ")
	}
	return &notification.Event{
		UserID:  m.UserID,
		Title:   "You're Eligible for a Loan!",
		Message: msg,
		Type:    notification.TypeLoanEligibility,
		Channels: []notification.Channel{
			notification.ChannelEmail,
			notification.ChannelInApp,
		},
		GroupID: m.GroupID,
		Metadata: map[string]any{
			"maxLoanAmount": res.MaxLoanAmount,
			"reasons":       res.Reasons,
		},
	}
}

// formatAmount renders 1234567.5 as "1,234,567.5".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}
