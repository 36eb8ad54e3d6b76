package middleware

import (
	"context"
	"errors"

	"github.com/questx-lab/dashboard/pkg/router"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type SessionResponse interface {
	SessionInfo() map[string]any
}

type ClearSessionResponse interface {
	ClearSession() bool
}

func HandleSaveSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		w := xcontext.HTTPWriter(ctx)
		store := xcontext.SessionStore(ctx)

		if clearResp, ok := xcontext.Response(ctx).(ClearSessionResponse); ok && clearResp.ClearSession() {
			return nil, store.Clear(req, w)
		}

		sessionResp, ok := xcontext.Response(ctx).(SessionResponse)
		if !ok {
			return nil, nil
		}

		sessionInfo := sessionResp.SessionInfo()
		if sessionInfo == nil {
			return nil, errors.New("no session info")
		}

		session, err := store.Get(req)
		if err != nil && session == nil {
			return nil, err
		}

		for k, v := range sessionInfo {
			session.Values[k] = v
		}

		return nil, store.Save(req, w, session)
	}
}
