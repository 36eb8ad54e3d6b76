package authenticator

import (
	"context"
	"strings"

	"github.com/questx-lab/dashboard/config"
	"golang.org/x/oauth2"
)

// OAuth2Config signs users in with the authorization code flow. Discord is not an OpenID provider,
// the identity is read from /users/@me with the exchanged token.
type OAuth2Config struct {
	oauth2.Config

	name string
}

func NewOAuth2Config(cfg config.AuthConfigs) *OAuth2Config {
	oauth2Cfg := cfg.DiscordOAuth2
	return &OAuth2Config{
		name: oauth2Cfg.Name,
		Config: oauth2.Config{
			ClientID:     oauth2Cfg.ClientID,
			ClientSecret: oauth2Cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   oauth2Cfg.AuthURL,
				TokenURL:  oauth2Cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: strings.TrimSuffix(cfg.CallbackBaseURL, "/") + "/oauth2/callback",
			Scopes:      oauth2Cfg.Scopes,
		},
	}
}

func (a *OAuth2Config) Service() string {
	return a.name
}

func (a *OAuth2Config) AuthCodeURL(state string) string {
	return a.Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
}

func (a *OAuth2Config) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.Config.Exchange(ctx, code)
}
