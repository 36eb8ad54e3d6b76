package model

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/dashboard/pkg/xcontext"
)

const (
	SessionState              = "state"
	SessionDiscordAccessToken = "discord_access_token"
	SessionUserID             = "user_id"
)

// AccessToken is the object signed into the dashboard access token.
type AccessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// OAuth2 Login
type OAuth2LoginRequest struct{}

type OAuth2LoginResponse struct {
	RedirectURL string `json:"-"`
	State       string `json:"-"`
}

func (r OAuth2LoginResponse) RedirectInfo() (int, string) {
	return http.StatusTemporaryRedirect, r.RedirectURL
}

func (r OAuth2LoginResponse) SessionInfo() map[string]any {
	return map[string]any{SessionState: r.State}
}

// OAuth2 Callback
type OAuth2CallbackRequest struct {
	State        string `json:"state" form:"state"`
	Code         string `json:"code" form:"code"`
	Error        string `json:"error" form:"error"`
	SessionState string `session:"state,delete"`
}

type OAuth2CallbackResponse struct {
	RedirectURL        string `json:"-"`
	AccessToken        string `json:"-"`
	DiscordAccessToken string `json:"-"`
	UserID             string `json:"-"`
}

func (r OAuth2CallbackResponse) RedirectInfo() (int, string) {
	return http.StatusTemporaryRedirect, r.RedirectURL
}

func (r OAuth2CallbackResponse) SessionInfo() map[string]any {
	return map[string]any{
		SessionDiscordAccessToken: r.DiscordAccessToken,
		SessionUserID:             r.UserID,
	}
}

func (r OAuth2CallbackResponse) CookieInfo(ctx context.Context) []http.Cookie {
	cfg := xcontext.Configs(ctx)
	return []http.Cookie{
		{
			Name:     cfg.Auth.AccessToken.Name,
			Value:    r.AccessToken,
			Path:     "/",
			Domain:   "",
			Expires:  time.Now().Add(cfg.Auth.AccessToken.Expiration),
			Secure:   cfg.Session.Secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Logout
type LogoutRequest struct{}

type LogoutResponse struct{}

func (r LogoutResponse) ClearSession() bool {
	return true
}

func (r LogoutResponse) CookieInfo(ctx context.Context) []http.Cookie {
	return []http.Cookie{
		{
			Name:     xcontext.Configs(ctx).Auth.AccessToken.Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		},
	}
}

// Me
type GetMeRequest struct{}

type GetMeResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
