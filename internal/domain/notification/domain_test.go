package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("  Email ")
	require.NoError(t, err)
	assert.Equal(t, ChannelEmail, c)

	_, err = ParseChannel("pigeon")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParseType(t *testing.T) {
	ty, err := ParseType("LOAN_ELIGIBILITY")
	require.NoError(t, err)
	assert.Equal(t, TypeLoanEligibility, ty)

	_, err = ParseType("gossip")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEventValidate(t *testing.T) {
	valid := Event{
		UserID:   "u1",
		Title:    "t",
		Message:  "m",
		Type:     TypeGeneral,
		Channels: []Channel{ChannelEmail},
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]func(e *Event){
		"missing user":    func(e *Event) { e.UserID = " " },
		"missing title":   func(e *Event) { e.Title = "" },
		"missing message": func(e *Event) { e.Message = "" },
		"bad type":        func(e *Event) { e.Type = "gossip" },
		"no channels":     func(e *Event) { e.Channels = nil },
		"bad channel":     func(e *Event) { e.Channels = []Channel{"pigeon"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := valid
			mutate(&e)
			assert.ErrorIs(t, e.Validate(), ErrValidation)
		})
	}
}

func TestPreferencesUnmarshal(t *testing.T) {
	doc := `{
		"email_enabled": true,
		"sms_enabled": false,
		"in_app_enabled": true,
		"loan_eligibility_alerts": false,
		"general_alerts": true,
		"bogus_alerts": true,
		"theme": "dark"
	}`

	var p Preferences
	require.NoError(t, json.Unmarshal([]byte(doc), &p))

	assert.True(t, p.EmailEnabled)
	assert.False(t, p.SMSEnabled)
	assert.True(t, p.InAppEnabled)
	assert.Equal(t, map[Type]bool{
		TypeLoanEligibility: false,
		TypeGeneral:         true,
	}, p.TypeAlerts)
}

func TestPreferencesZeroValueDisablesAll(t *testing.T) {
	var p Preferences
	got := ResolveChannels([]Channel{ChannelEmail, ChannelSMS, ChannelInApp}, p, TypeGeneral)
	assert.Empty(t, got)
}

func TestTypeEnabledDefaultsToTrue(t *testing.T) {
	p := Preferences{TypeAlerts: map[Type]bool{TypeGeneral: false}}
	assert.False(t, p.TypeEnabled(TypeGeneral))
	assert.True(t, p.TypeEnabled(TypeLoanEligibility))
}

func TestResolveChannels(t *testing.T) {
	all := []Channel{ChannelEmail, ChannelSMS, ChannelInApp}

	t.Run("type mute gates email and sms only", func(t *testing.T) {
		p := Preferences{
			EmailEnabled: true,
			SMSEnabled:   true,
			InAppEnabled: true,
			TypeAlerts:   map[Type]bool{TypeLoanEligibility: false},
		}
		got := ResolveChannels(all, p, TypeLoanEligibility)
		assert.Equal(t, []Channel{ChannelInApp}, got)
	})

	t.Run("channel flag gates regardless of type", func(t *testing.T) {
		p := Preferences{EmailEnabled: true}
		got := ResolveChannels(all, p, TypeGeneral)
		assert.Equal(t, []Channel{ChannelEmail}, got)
	})

	t.Run("unrequested channel never enabled", func(t *testing.T) {
		p := Preferences{EmailEnabled: true, SMSEnabled: true, InAppEnabled: true}
		got := ResolveChannels([]Channel{ChannelInApp}, p, TypeGeneral)
		assert.Equal(t, []Channel{ChannelInApp}, got)
	})

	t.Run("order follows request order", func(t *testing.T) {
		p := Preferences{EmailEnabled: true, SMSEnabled: true, InAppEnabled: true}
		got := ResolveChannels([]Channel{ChannelInApp, ChannelEmail}, p, TypeGeneral)
		assert.Equal(t, []Channel{ChannelInApp, ChannelEmail}, got)
	})
}

func TestPreferencesRoundTrip(t *testing.T) {
	p := Preferences{
		EmailEnabled: true,
		InAppEnabled: true,
		TypeAlerts:   map[Type]bool{TypeContributionReminder: false},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Preferences
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}
