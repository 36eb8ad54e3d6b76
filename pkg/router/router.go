package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/questx-lab/dashboard/pkg/logger"
	"github.com/questx-lab/dashboard/pkg/session"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may return a nil context to keep the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, whatever the result of the request.
type CloserFunc func(ctx context.Context)

type Router struct {
	inner *gin.Engine

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc

	cfg          config.Configs
	logger       logger.Logger
	db           *gorm.DB
	sessionStore *session.Store
	tokenEngine  authenticator.TokenEngine
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		inner:        gin.New(),
		cfg:          cfg,
		logger:       logger,
		db:           db,
		sessionStore: session.NewCookieStore(cfg.Session),
		tokenEngine:  authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch returns a router sharing the routes of r. Middlewares added to the branch do not affect r.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = slices.Clone(r.befores)
	clone.afters = slices.Clone(r.afters)
	clone.closers = slices.Clone(r.closers)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Handle registers a plain http.Handler, e.g. the metrics endpoint.
func (r *Router) Handle(method, pattern string, handler http.Handler) {
	r.inner.Handle(method, pattern, gin.WrapH(handler))
}

func (r *Router) Handler() http.Handler {
	if len(r.cfg.ApiServer.AllowedOrigins) == 0 {
		return r.inner
	}

	return cors.New(cors.Options{
		AllowedOrigins:   r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.inner)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) newContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithSessionStore(ctx, r.sessionStore)
	ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}
