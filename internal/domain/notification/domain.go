package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation failed")

// Channel is a delivery medium for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelInApp:
		return true
	}
	return false
}

func ParseChannel(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// Type is the closed set of notification kinds the engine dispatches.
type Type string

const (
	TypeLoanEligibility        Type = "loan_eligibility"
	TypeContributionReminder   Type = "contribution_reminder"
	TypeLoanStatusUpdate       Type = "loan_status_update"
	TypeMemberLoanAnnouncement Type = "member_loan_announcement"
	TypeGeneral                Type = "general"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case TypeLoanEligibility, TypeContributionReminder, TypeLoanStatusUpdate,
		TypeMemberLoanAnnouncement, TypeGeneral:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid notification type %q", ErrValidation, s)
	}
	return t, nil
}

// Event is the unit of work entering the dispatcher. It is immutable once
// submitted; JSON field names match the wire payload external callers send.
type Event struct {
	UserID   string         `json:"userId"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Type     Type           `json:"notificationType"`
	Channels []Channel      `json:"channels"`
	GroupID  string         `json:"groupId,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: invalid notification type %q", ErrValidation, e.Type)
	}
	if len(e.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", ErrValidation)
	}
	for _, c := range e.Channels {
		if !c.IsValid() {
			return fmt.Errorf("%w: invalid channel %q", ErrValidation, c)
		}
	}
	return nil
}

// Record is the persisted outcome of a dispatch. Channels holds the full
// enabled set at dispatch time, not just in_app; the row is never updated.
type Record struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      Type           `json:"notification_type"`
	Channels  []Channel      `json:"channels"`
	GroupID   string         `json:"group_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
