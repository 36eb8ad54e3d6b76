package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/router"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

// Authenticate verifies the dashboard access token and loads the Discord access token of the same
// user from the session.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		token := getAccessToken(req, xcontext.Configs(ctx).Auth.AccessToken.Name)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var info model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil || info.ID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		store := xcontext.SessionStore(ctx)
		if store.GetString(req, model.SessionUserID) != info.ID {
			return nil, errorx.New(errorx.Unauthenticated, "Session expired, please login again")
		}

		discordToken := store.GetString(req, model.SessionDiscordAccessToken)
		if discordToken == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Session expired, please login again")
		}

		ctx = xcontext.WithRequestUserID(ctx, info.ID)
		ctx = xcontext.WithDiscordAccessToken(ctx, discordToken)
		return ctx, nil
	}
}

func getAccessToken(r *http.Request, cookieName string) string {
	authorization := r.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
