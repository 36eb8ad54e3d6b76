package authenticator

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

type TokenEngine interface {
	// Generate creates a token string containing the obj and expiration.
	Generate(expiration time.Duration, obj any) (string, error)

	// Verify if token is invalid or expired. Then parse the obj from token to obj parameter. The
	// obj paramter must be a pointer.
	Verify(token string, obj any) error
}

type IOAuth2Service interface {
	Service() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}
