// Package botapi talks to the companion bot management API. The API moved between several path
// shapes over time, so every lookup walks an ordered list of templates.
package botapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/common"
	"github.com/questx-lab/dashboard/pkg/api"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

var (
	StatusTemplates = []string{
		"/api/guilds/%s/status",
		"/api/guilds/%s",
		"/guilds/%s/status",
		"/guilds/%s",
	}

	MemberTemplates = []string{
		"/api/guilds/%s/members/%s",
		"/guilds/%s/members/%s",
	}

	LeaveTemplates = []string{
		"/api/guilds/%s/leave",
	}
)

var (
	ErrNotConfigured   = errors.New("bot api is not configured")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("no bot api endpoint gave a definitive answer")
	ErrInvalidResponse = errors.New("invalid response")
)

const (
	statusResource = "botapi_status"
	memberResource = "botapi_member"
	leaveResource  = "botapi_leave"
)

type IEndpoint interface {
	Enabled() bool
	GetGuildStatus(ctx context.Context, guildID string) (bool, error)
	GetMember(ctx context.Context, guildID, userID string) (Member, error)
	LeaveGuild(ctx context.Context, guildID string) error
}

type Member struct {
	IsAdmin     bool
	Owner       bool
	Permissions string
}

type statusPayload struct {
	HasBot  *bool  `mapstructure:"hasBot"`
	InGuild *bool  `mapstructure:"inGuild"`
	Present *bool  `mapstructure:"present"`
	ID      string `mapstructure:"id"`
}

type memberPayload struct {
	IsAdmin     bool   `mapstructure:"isAdmin"`
	Admin       bool   `mapstructure:"admin"`
	Owner       bool   `mapstructure:"owner"`
	Permissions string `mapstructure:"permissions"`
}

type Endpoint struct {
	token string

	statusTemplates []string
	memberTemplates []string
	leaveTemplates  []string

	apiGenerator api.Generator
}

func New(cfg config.BotAPIConfigs) *Endpoint {
	e := &Endpoint{
		token:           cfg.Token,
		statusTemplates: StatusTemplates,
		memberTemplates: MemberTemplates,
		leaveTemplates:  LeaveTemplates,
	}

	if cfg.URL != "" {
		e.apiGenerator = api.NewGenerator(cfg.URL)
	}

	return e
}

func (e *Endpoint) Enabled() bool {
	return e.apiGenerator != nil
}

// GetGuildStatus reports whether the bot is in the guild. A 404 from any template means it is not.
// A 2xx answer must be a JSON object carrying a presence flag or the guild itself, anything else is
// ErrInvalidResponse.
func (e *Endpoint) GetGuildStatus(ctx context.Context, guildID string) (bool, error) {
	resp, err := e.firstDefinitive(ctx, statusResource, e.statusTemplates, http.MethodGet, guildID)
	if err != nil {
		return false, err
	}

	if resp.Code == http.StatusNotFound {
		return false, nil
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return false, ErrInvalidResponse
	}

	payload := statusPayload{}
	if err := mapstructure.Decode(body, &payload); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for _, flag := range []*bool{payload.HasBot, payload.InGuild, payload.Present} {
		if flag != nil {
			return *flag, nil
		}
	}

	// Older versions return the guild object itself.
	if payload.ID != "" && payload.ID == guildID {
		return true, nil
	}

	return false, ErrInvalidResponse
}

// GetMember returns ErrNotFound when the bot API does not know the member.
func (e *Endpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	resp, err := e.firstDefinitive(ctx, memberResource, e.memberTemplates, http.MethodGet, guildID, userID)
	if err != nil {
		return Member{}, err
	}

	if resp.Code == http.StatusNotFound {
		return Member{}, ErrNotFound
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Member{}, ErrInvalidResponse
	}

	payload := memberPayload{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return Member{}, err
	}

	if err := decoder.Decode(body); err != nil {
		return Member{}, err
	}

	return Member{
		IsAdmin:     payload.IsAdmin || payload.Admin,
		Owner:       payload.Owner,
		Permissions: payload.Permissions,
	}, nil
}

func (e *Endpoint) LeaveGuild(ctx context.Context, guildID string) error {
	resp, err := e.firstDefinitive(ctx, leaveResource, e.leaveTemplates, http.MethodPost, guildID)
	if err != nil {
		return err
	}

	if resp.Code == http.StatusNotFound {
		return ErrNotFound
	}

	return nil
}

// firstDefinitive tries the templates in order. The first 2xx or 404 response is returned, any
// other status or a network error moves on to the next template.
func (e *Endpoint) firstDefinitive(
	ctx context.Context, resource string, templates []string, method string, args ...any,
) (*api.Response, error) {
	if !e.Enabled() {
		return nil, ErrNotConfigured
	}

	for _, template := range templates {
		client := e.apiGenerator.New(template, args...).Header("Accept", "application/json")

		var opts []api.Opt
		if e.token != "" {
			opts = append(opts, api.OAuth2("Bearer", e.token))
		}

		var resp *api.Response
		var err error
		if method == http.MethodPost {
			resp, err = client.POST(ctx, opts...)
		} else {
			resp, err = client.GET(ctx, opts...)
		}

		if err != nil {
			common.PromCounters[common.DiscordAPIRequestTotal].WithLabelValues(resource, "error").Inc()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			xcontext.Logger(ctx).Debugf("Bot api template %s failed: %v", template, err)
			continue
		}

		common.PromCounters[common.DiscordAPIRequestTotal].WithLabelValues(resource, strconv.Itoa(resp.Code)).Inc()
		if resp.IsSuccess() || resp.Code == http.StatusNotFound {
			return resp, nil
		}

		xcontext.Logger(ctx).Debugf("Bot api template %s returned %d", template, resp.Code)
	}

	return nil, fmt.Errorf("%w (%d templates)", ErrUnavailable, len(templates))
}
