package notification

import (
	"encoding/json"
	"strings"
)

const alertsSuffix = "_alerts"

// Preferences mirrors the notification_preferences document stored on a
// profile. TypeAlerts holds explicit per-type overrides; a type with no entry
// is enabled. The zero value has every channel disabled, matching a profile
// that never set any preferences.
type Preferences struct {
	EmailEnabled bool
	SMSEnabled   bool
	InAppEnabled bool
	TypeAlerts   map[Type]bool
}

// TypeEnabled reports whether notifications of type t are allowed.
// Absence of an override is not an opt-out.
func (p Preferences) TypeEnabled(t Type) bool {
	if v, ok := p.TypeAlerts[t]; ok {
		return v
	}
	return true
}

// UnmarshalJSON reads the stored document, which uses flat boolean keys:
// email_enabled, sms_enabled, in_app_enabled plus one "<type>_alerts" key per
// overridden type. Unknown or non-boolean keys are ignored.
func (p *Preferences) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Preferences{}
	for k, v := range raw {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			continue
		}
		switch k {
		case "email_enabled":
			p.EmailEnabled = b
		case "sms_enabled":
			p.SMSEnabled = b
		case "in_app_enabled":
			p.InAppEnabled = b
		default:
			name, ok := strings.CutSuffix(k, alertsSuffix)
			if !ok {
				continue
			}
			t := Type(name)
			if !t.IsValid() {
				continue
			}
			if p.TypeAlerts == nil {
				p.TypeAlerts = make(map[Type]bool)
			}
			p.TypeAlerts[t] = b
		}
	}
	return nil
}

func (p Preferences) MarshalJSON() ([]byte, error) {
	out := map[string]bool{
		"email_enabled":  p.EmailEnabled,
		"sms_enabled":    p.SMSEnabled,
		"in_app_enabled": p.InAppEnabled,
	}
	for t, v := range p.TypeAlerts {
		out[string(t)+alertsSuffix] = v
	}
	return json.Marshal(out)
}

// ResolveChannels filters the requested channels down to the set the
// recipient's preferences enable for the given notification type. It is a
// pure function of its inputs; a channel that was not requested is never
// enabled regardless of preference.
func ResolveChannels(requested []Channel, p Preferences, t Type) []Channel {
	enabled := make([]Channel, 0, len(requested))
	for _, c := range requested {
		switch c {
		case ChannelEmail:
			if p.EmailEnabled && p.TypeEnabled(t) {
				enabled = append(enabled, c)
			}
		case ChannelSMS:
			if p.SMSEnabled && p.TypeEnabled(t) {
				enabled = append(enabled, c)
			}
		case ChannelInApp:
			if p.InAppEnabled {
				enabled = append(enabled, c)
			}
		}
	}
	return enabled
}
