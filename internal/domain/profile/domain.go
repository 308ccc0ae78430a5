package profile

import "github.com/chamasoft/notify-engine/internal/domain/notification"

// Profile is the slice of a user profile the dispatcher needs: contact
// addresses and notification preferences. Owned by the profile store;
// read-only to this engine.
type Profile struct {
	ID          string                   `json:"id"`
	Email       string                   `json:"email,omitempty"`
	PhoneNumber string                   `json:"phone_number,omitempty"`
	Prefs       notification.Preferences `json:"notification_preferences"`
}
