package domain

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/testutil"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.True(t, errors.As(err, &errx), "expected errorx.Error, got %v", err)
	require.Equal(t, code, errx.Code)
}

func TestAuthDomain_OAuth2Login(t *testing.T) {
	domain := NewAuthDomain(testutil.NewMockOAuth2("discord"), &testutil.MockDiscordEndpoint{})

	resp, err := domain.OAuth2Login(testutil.MockContext(), &model.OAuth2LoginRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.State)
	require.True(t, strings.HasSuffix(resp.RedirectURL, "state="+resp.State))

	code, url := resp.RedirectInfo()
	require.Equal(t, http.StatusTemporaryRedirect, code)
	require.Equal(t, resp.RedirectURL, url)
	require.Equal(t, map[string]any{model.SessionState: resp.State}, resp.SessionInfo())

	// Every login has its own state.
	another, err := domain.OAuth2Login(testutil.MockContext(), &model.OAuth2LoginRequest{})
	require.NoError(t, err)
	require.NotEqual(t, resp.State, another.State)
}

func TestAuthDomain_OAuth2Callback(t *testing.T) {
	oauth2Service := testutil.NewMockOAuth2("discord")
	oauth2Service.ExchangeFunc = func(ctx context.Context, code string) (*oauth2.Token, error) {
		if code != "valid-code" {
			return nil, errors.New("invalid_grant")
		}
		return &oauth2.Token{AccessToken: "discord-token"}, nil
	}

	discordEndpoint := &testutil.MockDiscordEndpoint{
		GetMeFunc: func(ctx context.Context, token string) (discord.User, error) {
			if token != "discord-token" {
				return discord.User{}, &discord.StatusError{Code: http.StatusUnauthorized}
			}
			return discord.User{ID: "333333333333333333", Username: "alice"}, nil
		},
	}

	tests := []struct {
		name    string
		req     *model.OAuth2CallbackRequest
		wantErr errorx.Code
	}{
		{
			name:    "access denied",
			req:     &model.OAuth2CallbackRequest{Error: "access_denied", State: "s", SessionState: "s"},
			wantErr: errorx.Unauthenticated,
		},
		{
			name:    "mismatched state",
			req:     &model.OAuth2CallbackRequest{Code: "valid-code", State: "s1", SessionState: "s2"},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "no session state",
			req:     &model.OAuth2CallbackRequest{Code: "valid-code"},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "no code",
			req:     &model.OAuth2CallbackRequest{State: "s", SessionState: "s"},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "invalid code",
			req:     &model.OAuth2CallbackRequest{Code: "invalid-code", State: "s", SessionState: "s"},
			wantErr: errorx.Unauthenticated,
		},
		{
			name: "happy case",
			req:  &model.OAuth2CallbackRequest{Code: "valid-code", State: "s", SessionState: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			domain := NewAuthDomain(oauth2Service, discordEndpoint)

			resp, err := domain.OAuth2Callback(ctx, tt.req)
			if tt.wantErr != 0 {
				requireErrorCode(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "https://dashboard.example", resp.RedirectURL)
			require.Equal(t, "333333333333333333", resp.UserID)
			require.Equal(t, "discord-token", resp.DiscordAccessToken)

			var info model.AccessToken
			require.NoError(t, xcontext.TokenEngine(ctx).Verify(resp.AccessToken, &info))
			require.Equal(t, model.AccessToken{ID: "333333333333333333", Username: "alice"}, info)

			// The Discord token stays in the session, only the dashboard token goes to a cookie.
			cookies := resp.CookieInfo(ctx)
			require.Len(t, cookies, 1)
			require.Equal(t, "access_token", cookies[0].Name)
			require.Equal(t, resp.AccessToken, cookies[0].Value)
			require.True(t, cookies[0].HttpOnly)
			require.Equal(t, "discord-token", resp.SessionInfo()[model.SessionDiscordAccessToken])
		})
	}
}

func TestAuthDomain_OAuth2Callback_DiscordUnavailable(t *testing.T) {
	oauth2Service := testutil.NewMockOAuth2("discord")
	oauth2Service.ExchangeFunc = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "discord-token"}, nil
	}

	domain := NewAuthDomain(oauth2Service, &testutil.MockDiscordEndpoint{})
	_, err := domain.OAuth2Callback(testutil.MockContext(), &model.OAuth2CallbackRequest{
		Code: "code", State: "s", SessionState: "s",
	})
	requireErrorCode(t, err, errorx.Unavailable)
}

func TestAuthDomain_GetMe(t *testing.T) {
	tests := []struct {
		name    string
		getMe   func(ctx context.Context, token string) (discord.User, error)
		want    *model.GetMeResponse
		wantErr errorx.Code
	}{
		{
			name: "happy case",
			getMe: func(ctx context.Context, token string) (discord.User, error) {
				return discord.User{ID: "u1", Username: "alice", Avatar: "a1"}, nil
			},
			want: &model.GetMeResponse{ID: "u1", Username: "alice", Avatar: "a1"},
		},
		{
			name: "discord token expired",
			getMe: func(ctx context.Context, token string) (discord.User, error) {
				return discord.User{}, &discord.StatusError{Code: http.StatusUnauthorized}
			},
			wantErr: errorx.Unauthenticated,
		},
		{
			name: "discord unavailable",
			getMe: func(ctx context.Context, token string) (discord.User, error) {
				return discord.User{}, &discord.StatusError{Code: http.StatusBadGateway}
			},
			wantErr: errorx.Unavailable,
		},
		{
			name: "another user",
			getMe: func(ctx context.Context, token string) (discord.User, error) {
				return discord.User{ID: "u2"}, nil
			},
			wantErr: errorx.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := NewAuthDomain(testutil.NewMockOAuth2("discord"), &testutil.MockDiscordEndpoint{GetMeFunc: tt.getMe})

			resp, err := domain.GetMe(testutil.MockContextWithUser("u1", "discord-token"), &model.GetMeRequest{})
			if tt.wantErr != 0 {
				requireErrorCode(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, resp)
		})
	}
}
