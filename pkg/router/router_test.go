package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/logger"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	GuildID string `json:"guild_id" form:"guild_id"`
}

type echoResponse struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id,omitempty"`
}

type userIDKey struct{}

func newTestRouter() *Router {
	gin.SetMode(gin.TestMode)
	return New(nil, config.Configs{
		Session: config.SessionConfigs{Name: "session", Secret: "secret"},
		Auth:    config.AuthConfigs{TokenSecret: "secret"},
	}, logger.NewLogger(logger.SILENCE))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_GET(t *testing.T) {
	r := newTestRouter()
	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{GuildID: req.GuildID}, nil
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo?guild_id=42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"code":0,"data":{"guild_id":"42"}}`, rec.Body.String())
}

func TestRouter_POST(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{GuildID: req.GuildID}, nil
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"guild_id":"7"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"guild_id": "7"}, decode(t, rec).Data)

	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, int64(errorx.BadRequest), decode(t, rec).Code)
}

func TestRouter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   errorx.Code
	}{
		{name: "permission denied", err: errorx.New(errorx.PermissionDenied, "no"), wantStatus: 403, wantCode: errorx.PermissionDenied},
		{name: "unauthenticated", err: errorx.New(errorx.Unauthenticated, "no"), wantStatus: 401, wantCode: errorx.Unauthenticated},
		{name: "not found", err: errorx.New(errorx.NotFound, "no"), wantStatus: 404, wantCode: errorx.NotFound},
		{name: "unavailable", err: errorx.New(errorx.Unavailable, "no"), wantStatus: 503, wantCode: errorx.Unavailable},
		{name: "unknown", err: errors.New("boom"), wantStatus: 500, wantCode: errorx.Unknown.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
				return nil, tt.err
			})

			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decode(t, rec)
			require.Equal(t, int64(tt.wantCode), resp.Code)
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestRouter_BranchMiddlewares(t *testing.T) {
	r := newTestRouter()

	closed := []string{}
	r.AddCloser(func(ctx context.Context) {
		closed = append(closed, xcontext.HTTPRequest(ctx).URL.Path)
	})

	authed := r.Branch()
	authed.Before(func(ctx context.Context) (context.Context, error) {
		userID := xcontext.HTTPRequest(ctx).Header.Get("X-User")
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}
		return context.WithValue(ctx, userIDKey{}, userID), nil
	})

	handler := func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		userID, _ := ctx.Value(userIDKey{}).(string)
		return &echoResponse{GuildID: req.GuildID, UserID: userID}, nil
	}
	GET(authed, "/private", handler)
	GET(r, "/public", handler)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/private?guild_id=1", nil)
	req.Header.Set("X-User", "u1")
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"code":0,"data":{"guild_id":"1","user_id":"u1"}}`, rec.Body.String())

	// The middleware of the branch does not apply to the parent router.
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, []string{"/private", "/private", "/public"}, closed)
}

type sessionRequest struct {
	State        string `form:"state"`
	SessionState string `session:"state,delete"`
}

func TestRouter_SessionTag(t *testing.T) {
	r := newTestRouter()

	// Seed a session cookie holding the state.
	seed := httptest.NewRecorder()
	seedReq := httptest.NewRequest(http.MethodGet, "/", nil)
	s, err := r.sessionStore.Get(seedReq)
	require.NoError(t, err)
	s.Values["state"] = "expected"
	require.NoError(t, r.sessionStore.Save(seedReq, seed, s))

	GET(r, "/callback", func(ctx context.Context, req *sessionRequest) (*echoResponse, error) {
		if req.State != req.SessionState {
			return nil, errorx.New(errorx.BadRequest, "Mismatched state")
		}
		return &echoResponse{GuildID: req.SessionState}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/callback?state=expected&SessionState=forged", nil)
	req.AddCookie(seed.Result().Cookies()[0])
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"guild_id": "expected"}, decode(t, rec).Data)

	// Without the cookie the session value is empty, a forged query does not help.
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=forged&SessionState=forged", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(nil, config.Configs{
		ApiServer: config.APIServerConfigs{AllowedOrigins: []string{"https://dashboard.example"}},
	}, logger.NewLogger(logger.SILENCE))
	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, "https://dashboard.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
