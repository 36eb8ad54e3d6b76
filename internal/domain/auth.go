package domain

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type AuthDomain interface {
	OAuth2Login(context.Context, *model.OAuth2LoginRequest) (*model.OAuth2LoginResponse, error)
	OAuth2Callback(context.Context, *model.OAuth2CallbackRequest) (*model.OAuth2CallbackResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
}

type authDomain struct {
	oauth2Service   authenticator.IOAuth2Service
	discordEndpoint discord.IEndpoint
}

func NewAuthDomain(
	oauth2Service authenticator.IOAuth2Service,
	discordEndpoint discord.IEndpoint,
) *authDomain {
	return &authDomain{
		oauth2Service:   oauth2Service,
		discordEndpoint: discordEndpoint,
	}
}

func (d *authDomain) OAuth2Login(
	ctx context.Context, req *model.OAuth2LoginRequest,
) (*model.OAuth2LoginResponse, error) {
	state := uuid.NewString()
	return &model.OAuth2LoginResponse{
		RedirectURL: d.oauth2Service.AuthCodeURL(state),
		State:       state,
	}, nil
}

func (d *authDomain) OAuth2Callback(
	ctx context.Context, req *model.OAuth2CallbackRequest,
) (*model.OAuth2CallbackResponse, error) {
	if req.Error != "" {
		return nil, errorx.New(errorx.Unauthenticated, "Authorization was not granted: %s", req.Error)
	}

	if req.SessionState == "" || req.State != req.SessionState {
		return nil, errorx.New(errorx.BadRequest, "Mismatched state parameter")
	}

	if req.Code == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found authorization code")
	}

	// Exchange an authorization code for a service token.
	serviceToken, err := d.oauth2Service.Exchange(ctx, req.Code)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot exchange authorization code: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Cannot exchange authorization code")
	}

	user, err := d.discordEndpoint.GetMe(ctx, serviceToken.AccessToken)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get discord user: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get discord user")
	}

	cfg := xcontext.Configs(ctx)
	token, err := xcontext.TokenEngine(ctx).Generate(cfg.Auth.AccessToken.Expiration, model.AccessToken{
		ID:       user.ID,
		Username: user.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	redirectURL := cfg.ApiServer.DashboardURL
	if redirectURL == "" {
		redirectURL = "/"
	}

	return &model.OAuth2CallbackResponse{
		RedirectURL:        redirectURL,
		AccessToken:        token,
		DiscordAccessToken: serviceToken.AccessToken,
		UserID:             user.ID,
	}, nil
}

func (d *authDomain) Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error) {
	return &model.LogoutResponse{}, nil
}

func (d *authDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.discordEndpoint.GetMe(ctx, xcontext.DiscordAccessToken(ctx))
	if err != nil {
		var statusErr *discord.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
			return nil, errorx.New(errorx.Unauthenticated, "Discord session expired, please login again")
		}

		xcontext.Logger(ctx).Errorf("Cannot get discord user: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get discord user")
	}

	if user.ID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.Unauthenticated, "Session expired, please login again")
	}

	return &model.GetMeResponse{
		ID:       user.ID,
		Username: user.Username,
		Avatar:   user.Avatar,
	}, nil
}
