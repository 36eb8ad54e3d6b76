package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questx-lab/dashboard/config"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewCookieStore(config.SessionConfigs{
		Name:          "dashboard_session",
		Secret:        "0123456789abcdef0123456789abcdef",
		EncryptionKey: "abcdef0123456789abcdef0123456789",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	session, err := store.Get(req)
	require.NoError(t, err)
	session.Values["discord_access_token"] = "secret-token"
	require.NoError(t, store.Save(req, rec, session))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.NotContains(t, cookies[0].Value, "secret-token")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	require.Equal(t, "secret-token", store.GetString(next, "discord_access_token"))

	rec = httptest.NewRecorder()
	require.NoError(t, store.Clear(next, rec))
	require.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestStore_TamperedCookie(t *testing.T) {
	store := NewCookieStore(config.SessionConfigs{Name: "s", Secret: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "s", Value: "tampered"})
	require.Empty(t, store.GetString(req, "user_id"))
}
