package authenticator_test

import (
	"testing"
	"time"

	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, accessToken{ID: "1", Username: "alice"})
	require.NoError(t, err)

	var obj accessToken
	require.NoError(t, engine.Verify(token, &obj))
	require.Equal(t, accessToken{ID: "1", Username: "alice"}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(-time.Minute, "abc")
	require.NoError(t, err)

	var msg string
	require.Error(t, engine.Verify(token, &msg))
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine("secret").Generate(time.Minute, "abc")
	require.NoError(t, err)

	var msg string
	require.Error(t, authenticator.NewTokenEngine("other").Verify(token, &msg))
}
