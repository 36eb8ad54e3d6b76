package middleware

import (
	"context"
	"net/http"

	"github.com/questx-lab/dashboard/pkg/router"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type CookieResponse interface {
	CookieInfo(context.Context) []http.Cookie
}

func HandleSetCookies() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		cookieResp, ok := xcontext.Response(ctx).(CookieResponse)
		if ok {
			for _, cookie := range cookieResp.CookieInfo(ctx) {
				cookie := cookie
				http.SetCookie(xcontext.HTTPWriter(ctx), &cookie)
			}
		}

		return nil, nil
	}
}
