package authenticator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/questx-lab/dashboard/config"
	"github.com/stretchr/testify/require"
)

func TestOAuth2Config(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.Form.Get("code"))
		require.Equal(t, "client", r.Form.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"discord-token","token_type":"Bearer","expires_in":604800}`))
	}))
	defer server.Close()

	cfg := config.AuthConfigs{
		CallbackBaseURL: "http://localhost:8080/",
		DiscordOAuth2: config.OAuth2Configs{
			Name:         "discord",
			ClientID:     "client",
			ClientSecret: "secret",
			AuthURL:      "https://discord.com/oauth2/authorize",
			TokenURL:     server.URL,
			Scopes:       []string{"identify", "guilds"},
		},
	}

	service := NewOAuth2Config(cfg)
	require.Equal(t, "discord", service.Service())

	authURL, err := url.Parse(service.AuthCodeURL("state-1"))
	require.NoError(t, err)
	require.Equal(t, "state-1", authURL.Query().Get("state"))
	require.Equal(t, "identify guilds", authURL.Query().Get("scope"))
	require.Equal(t, "http://localhost:8080/oauth2/callback", authURL.Query().Get("redirect_uri"))

	token, err := service.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "discord-token", token.AccessToken)
}
