package xcontext

import (
	"context"

	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/questx-lab/dashboard/pkg/session"
)

type (
	requestUserIDKey      struct{}
	discordAccessTokenKey struct{}
	responseKey           struct{}
	errorKey              struct{}
	sessionStoreKey       struct{}
	tokenEngineKey        struct{}
)

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(requestUserIDKey{}).(string)
	return id
}

// WithDiscordAccessToken stores the OAuth2 access token of the signed-in user. It is only read by
// server-side code and never rendered back to clients.
func WithDiscordAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, discordAccessTokenKey{}, token)
}

func DiscordAccessToken(ctx context.Context) string {
	token, _ := ctx.Value(discordAccessTokenKey{}).(string)
	return token
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, _ := ctx.Value(errorKey{}).(error)
	return err
}

func WithSessionStore(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) *session.Store {
	store, _ := ctx.Value(sessionStoreKey{}).(*session.Store)
	return store
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	engine, _ := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
	return engine
}
