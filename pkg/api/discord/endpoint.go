package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/common"
	"github.com/questx-lab/dashboard/pkg/api"
)

const DefaultAPIURL = "https://discord.com/api/v10"
const userAgent = "DiscordBot (https://github.com/questx-lab/dashboard, 1.0)"

const botGuildsPageSize = 200

const (
	meResource         = "me"
	userGuildsResource = "user_guilds"
	botGuildsResource  = "bot_guilds"
	guildResource      = "guild"
	memberResource     = "guild_member"
	rolesResource      = "guild_roles"
	leaveGuildResource = "leave_guild"
	globalResource     = "global"
)

type caller func(ctx context.Context, opts ...api.Opt) (*api.Response, error)

type Endpoint struct {
	BotToken string
	BotID    string

	apiGenerator      api.Generator
	rateLimitResource *xsync.MapOf[string, *xsync.MapOf[string, time.Time]]
}

func New(cfg config.DiscordConfigs) *Endpoint {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Endpoint{
		BotToken:          cfg.BotToken,
		BotID:             cfg.BotID,
		apiGenerator:      api.NewGenerator(apiURL),
		rateLimitResource: xsync.NewMapOf[*xsync.MapOf[string, time.Time]](),
	}
}

func (e *Endpoint) HasBotToken() bool {
	return e.BotToken != ""
}

func (e *Endpoint) GetMe(ctx context.Context, token string) (User, error) {
	client := e.apiGenerator.New(route(discordgo.EndpointUser("@me"))).Header("User-Agent", userAgent)
	resp, err := e.call(ctx, meResource, client.GET, api.OAuth2("Bearer", token))
	if err != nil {
		return User{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return User{}, ErrInvalidResponse
	}

	return parseUser(body)
}

// GetCurrentUserGuilds lists the guilds of the owner of the OAuth2 token. A *RateLimitError is
// returned for 429 responses, the caller decides whether to retry.
func (e *Endpoint) GetCurrentUserGuilds(ctx context.Context, token string) ([]UserGuild, error) {
	client := e.apiGenerator.New(route(discordgo.EndpointUserGuilds("@me"))).Header("User-Agent", userAgent)
	resp, err := e.call(ctx, userGuildsResource, client.GET, api.OAuth2("Bearer", token))
	if err != nil {
		return nil, err
	}

	return decodeGuilds(resp)
}

// GetBotGuilds lists every guild the bot is a member of, following the after cursor until a page is
// not full.
func (e *Endpoint) GetBotGuilds(ctx context.Context) ([]UserGuild, error) {
	var guilds []UserGuild
	after := ""
	for {
		query := api.Parameter{"limit": strconv.Itoa(botGuildsPageSize)}
		if after != "" {
			query["after"] = after
		}

		client := e.apiGenerator.New(route(discordgo.EndpointUserGuilds("@me"))).
			Header("User-Agent", userAgent).
			Query(query)
		resp, err := e.botCall(ctx, botGuildsResource, e.BotID, client.GET)
		if err != nil {
			return nil, err
		}

		page, err := decodeGuilds(resp)
		if err != nil {
			return nil, err
		}

		guilds = append(guilds, page...)
		if len(page) < botGuildsPageSize {
			return guilds, nil
		}

		after = page[len(page)-1].ID
	}
}

func (e *Endpoint) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	client := e.apiGenerator.New(route(discordgo.EndpointGuild(guildID))).Header("User-Agent", userAgent)
	resp, err := e.botCall(ctx, guildResource, guildID, client.GET)
	if err != nil {
		return Guild{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Guild{}, ErrInvalidResponse
	}

	id, err := body.GetString("id")
	if err != nil {
		return Guild{}, err
	}

	ownerID, err := body.GetString("owner_id")
	if err != nil {
		return Guild{}, err
	}

	name, _ := body.GetString("name")
	return Guild{ID: id, Name: name, OwnerID: ownerID}, nil
}

// GetMember returns ErrNotFound when the user is not a member of the guild.
func (e *Endpoint) GetMember(ctx context.Context, guildID, userID string) (Member, error) {
	client := e.apiGenerator.New(route(discordgo.EndpointGuildMember(guildID, userID))).
		Header("User-Agent", userAgent)
	resp, err := e.botCall(ctx, memberResource, guildID, client.GET)
	if err != nil {
		return Member{}, err
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Member{}, ErrInvalidResponse
	}

	member := Member{}
	if user, err := body.GetJSON("user"); err == nil {
		if member.User, err = parseUser(user); err != nil {
			return Member{}, err
		}
	}

	if member.Roles, err = body.GetStringArray("roles"); err != nil {
		return Member{}, err
	}

	member.Permissions, _ = body.GetString("permissions")
	return member, nil
}

func (e *Endpoint) GetRoles(ctx context.Context, guildID string) ([]Role, error) {
	client := e.apiGenerator.New(route(discordgo.EndpointGuildRoles(guildID))).Header("User-Agent", userAgent)
	resp, err := e.botCall(ctx, rolesResource, guildID, client.GET)
	if err != nil {
		return nil, err
	}

	array, ok := resp.Body.(api.Array)
	if !ok {
		return nil, ErrInvalidResponse
	}

	var roles []Role
	for _, role := range array {
		id, err := role.GetString("id")
		if err != nil {
			return nil, err
		}

		name, err := role.GetString("name")
		if err != nil {
			return nil, err
		}

		permissions, err := role.GetString("permissions")
		if err != nil {
			return nil, err
		}

		position, _ := role.GetInt("position")
		roles = append(roles, Role{ID: id, Name: name, Position: position, Permissions: permissions})
	}

	return roles, nil
}

// LeaveGuild makes the bot leave the guild.
func (e *Endpoint) LeaveGuild(ctx context.Context, guildID string) error {
	client := e.apiGenerator.New(route(discordgo.EndpointUserGuild("@me", guildID))).
		Header("User-Agent", userAgent)
	_, err := e.botCall(ctx, leaveGuildResource, guildID, client.DELETE)
	return err
}

func (e *Endpoint) botCall(ctx context.Context, resource, identifier string, fn caller) (*api.Response, error) {
	if !e.HasBotToken() {
		return nil, ErrNoBotToken
	}

	if err := e.checkLimitingResource(globalResource, ""); err != nil {
		return nil, err
	}

	if err := e.checkLimitingResource(resource, identifier); err != nil {
		return nil, err
	}

	resp, err := e.call(ctx, resource, fn, api.OAuth2("Bot", e.BotToken))
	if rl, ok := err.(*RateLimitError); ok {
		if rl.Global {
			e.limitResource(globalResource, "", rl.After)
		} else {
			e.limitResource(resource, identifier, rl.After)
		}
	}

	return resp, err
}

func (e *Endpoint) call(ctx context.Context, resource string, fn caller, opts ...api.Opt) (*api.Response, error) {
	resp, err := fn(ctx, opts...)
	if err != nil {
		recordRequest(resource, "error")
		return nil, err
	}

	recordRequest(resource, strconv.Itoa(resp.Code))

	if resp.Code == http.StatusTooManyRequests {
		return nil, parseRateLimit(resp)
	}

	if !resp.IsSuccess() {
		return nil, statusError(resp)
	}

	return resp, nil
}

func (e *Endpoint) checkLimitingResource(resource, identifier string) error {
	if limit, ok := e.rateLimitResource.Load(resource); ok {
		if resetAt, ok := limit.Load(identifier); ok {
			if remaining := time.Until(resetAt); remaining > 0 {
				return &RateLimitError{After: remaining, Global: resource == globalResource}
			}

			// If the rate limit is reset, delete the limit for this resource.
			limit.Delete(identifier)
		}
	}

	return nil
}

func (e *Endpoint) limitResource(resource, identifier string, after time.Duration) {
	if after <= 0 {
		return
	}

	resourceLimiter, _ := e.rateLimitResource.LoadOrStore(resource, xsync.NewMapOf[time.Time]())
	resourceLimiter.Store(identifier, time.Now().Add(after))
}

func recordRequest(resource, code string) {
	common.PromCounters[common.DiscordAPIRequestTotal].WithLabelValues(resource, code).Inc()
}

func decodeGuilds(resp *api.Response) ([]UserGuild, error) {
	if _, ok := resp.Body.(api.Array); !ok {
		return nil, ErrInvalidResponse
	}

	var guilds []UserGuild
	if err := json.Unmarshal(resp.RawBody, &guilds); err != nil {
		return nil, err
	}

	return guilds, nil
}

func parseUser(body api.JSON) (User, error) {
	id, err := body.GetString("id")
	if err != nil {
		return User{}, err
	}

	username, _ := body.GetString("username")
	avatar, _ := body.GetString("avatar")
	return User{ID: id, Username: username, Avatar: avatar}, nil
}
