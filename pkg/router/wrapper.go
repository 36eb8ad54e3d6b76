package router

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := router.newContext(c.Request, c.Writer)
		defer func() {
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		ctx = serve(ctx, router, c, method, handler)
		handleResponse(ctx, c.Writer)
	}
}

func serve[Request, Response any](
	ctx context.Context,
	router *Router,
	c *gin.Context,
	method string,
	handler HandlerFunc[Request, Response],
) context.Context {
	var err error
	for _, middleware := range router.befores {
		if ctx, err = runMiddleware(ctx, middleware); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	req := new(Request)
	if err := bind(c, method, req); err != nil {
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request: %v", err))
	}

	if err := parseSession(ctx, req); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse session: %v", err)
		return xcontext.WithError(ctx, errorx.Unknown)
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	if resp != nil {
		ctx = xcontext.WithResponse(ctx, resp)
	}

	for _, middleware := range router.afters {
		if ctx, err = runMiddleware(ctx, middleware); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	return ctx
}

func runMiddleware(ctx context.Context, middleware MiddlewareFunc) (context.Context, error) {
	newCtx, err := middleware(ctx)
	if newCtx == nil {
		newCtx = ctx
	}

	return newCtx, err
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	case http.MethodPost:
		if c.Request.ContentLength == 0 {
			return nil
		}
		return c.ShouldBindJSON(req)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
}

// parseSession fills the string fields tagged with `session:"key"` from the session store. The
// option delete removes the key from the session after reading it. Fields are always overwritten,
// so a client cannot supply them through the query.
func parseSession(ctx context.Context, req any) error {
	v := reflect.ValueOf(req).Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}

	store := xcontext.SessionStore(ctx)
	httpReq := xcontext.HTTPRequest(ctx)

	changed := false
	for i := 0; i < v.NumField(); i++ {
		tag := v.Type().Field(i).Tag.Get("session")
		if tag == "" {
			continue
		}

		if store == nil {
			return fmt.Errorf("no session store")
		}

		field := v.Field(i)
		if field.Kind() != reflect.String {
			return fmt.Errorf("session field %s must be a string", v.Type().Field(i).Name)
		}

		key, option, _ := strings.Cut(tag, ",")
		session, err := store.Get(httpReq)
		if err != nil && session == nil {
			return err
		}

		value, _ := session.Values[key].(string)
		field.SetString(value)

		if option == "delete" {
			delete(session.Values, key)
			changed = true
		}
	}

	if changed {
		session, _ := store.Get(httpReq)
		return store.Save(httpReq, xcontext.HTTPWriter(ctx), session)
	}

	return nil
}
