package dispatcher

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
	"github.com/chamasoft/notify-engine/internal/domain/profile"
)

func doDispatch(t *testing.T, d *Dispatcher, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewServer(d, zap.NewNop())
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/dispatch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestServer_DispatchOK(t *testing.T) {
	profiles := &fakeProfiles{byID: map[string]*profile.Profile{
		"u1": {ID: "u1", Email: "a@b.co", Prefs: allEnabledPrefs()},
	}}
	d := newTestDispatcher(profiles, &fakeStore{}, &fakeMailer{}, nil)

	rec := doDispatch(t, d, `{
		"userId": "u1",
		"title": "Hello",
		"message": "World",
		"notificationType": "general",
		"channels": ["email", "in_app"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dispatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []notification.Channel{
		notification.ChannelEmail, notification.ChannelInApp,
	}, resp.ChannelsSent)
}

func TestServer_DispatchUnknownUser(t *testing.T) {
	d := newTestDispatcher(&fakeProfiles{byID: map[string]*profile.Profile{}}, &fakeStore{}, &fakeMailer{}, nil)

	rec := doDispatch(t, d, `{
		"userId": "nobody",
		"title": "Hello",
		"message": "World",
		"notificationType": "general",
		"channels": ["email"]
	}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DispatchValidation(t *testing.T) {
	d := newTestDispatcher(&fakeProfiles{}, &fakeStore{}, &fakeMailer{}, nil)

	rec := doDispatch(t, d, `{
		"userId": "u1",
		"title": "",
		"message": "World",
		"notificationType": "bogus-type",
		"channels": ["email"]
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Healthz(t *testing.T) {
	e := NewServer(newTestDispatcher(&fakeProfiles{}, &fakeStore{}, &fakeMailer{}, nil), zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
