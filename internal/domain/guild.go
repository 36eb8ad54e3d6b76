package domain

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
	"github.com/fatih/structs"
	"github.com/questx-lab/dashboard/internal/domain/guildauth"
	"github.com/questx-lab/dashboard/internal/entity"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/internal/repository"
	"github.com/questx-lab/dashboard/pkg/api/botapi"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/enum"
	"github.com/questx-lab/dashboard/pkg/errorx"
	"github.com/questx-lab/dashboard/pkg/permission"
	"github.com/questx-lab/dashboard/pkg/pubsub"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	defaultPrefix = "!"
	maxPrefixLen  = 5
)

var defaultLocale = string(entity.GuildLocaleEnUS)

// botInvitePermissions are requested when the bot is invited from the dashboard.
const botInvitePermissions = discordgo.PermissionAdministrator

type GuildDomain interface {
	GetMyGuilds(context.Context, *model.GetMyGuildsRequest) (*model.GetMyGuildsResponse, error)
	GetGuild(context.Context, *model.GetGuildRequest) (*model.GetGuildResponse, error)
	GetGuildSettings(context.Context, *model.GetGuildSettingsRequest) (*model.GetGuildSettingsResponse, error)
	UpdateGuildSettings(context.Context, *model.UpdateGuildSettingsRequest) (*model.UpdateGuildSettingsResponse, error)
	LeaveGuild(context.Context, *model.LeaveGuildRequest) (*model.LeaveGuildResponse, error)
}

type guildDomain struct {
	guildFetcher      guildauth.GuildFetcher
	authorizer        guildauth.Authorizer
	guildSettingsRepo repository.GuildSettingsRepository
	discordEndpoint   discord.IEndpoint
	botAPIEndpoint    botapi.IEndpoint
	publisher         pubsub.Publisher
}

func NewGuildDomain(
	guildFetcher guildauth.GuildFetcher,
	authorizer guildauth.Authorizer,
	guildSettingsRepo repository.GuildSettingsRepository,
	discordEndpoint discord.IEndpoint,
	botAPIEndpoint botapi.IEndpoint,
	publisher pubsub.Publisher,
) *guildDomain {
	return &guildDomain{
		guildFetcher:      guildFetcher,
		authorizer:        authorizer,
		guildSettingsRepo: guildSettingsRepo,
		discordEndpoint:   discordEndpoint,
		botAPIEndpoint:    botAPIEndpoint,
		publisher:         publisher,
	}
}

func (d *guildDomain) GetMyGuilds(
	ctx context.Context, req *model.GetMyGuildsRequest,
) (*model.GetMyGuildsResponse, error) {
	guilds := d.authorizer.GetAllUserGuilds(
		ctx, xcontext.DiscordAccessToken(ctx), xcontext.RequestUserID(ctx))

	clientID := xcontext.Configs(ctx).Auth.DiscordOAuth2.ClientID
	for i := range guilds {
		g := &guilds[i]
		if clientID != "" && !g.HasBot && permission.IsGuildAdmin(g.Owner, g.Permissions) {
			g.InviteURL = inviteURL(clientID, g.ID)
		}
	}

	return &model.GetMyGuildsResponse{Guilds: guilds}, nil
}

func (d *guildDomain) GetGuild(
	ctx context.Context, req *model.GetGuildRequest,
) (*model.GetGuildResponse, error) {
	if err := validateGuildID(req.GuildID); err != nil {
		return nil, err
	}

	accessToken := xcontext.DiscordAccessToken(ctx)
	var guild *model.Guild
	for _, g := range d.guildFetcher.FetchUserGuilds(ctx, accessToken) {
		if g.ID == req.GuildID {
			g := g
			guild = &g
			break
		}
	}

	if guild == nil {
		return nil, errorx.New(errorx.NotFound, "Not found guild")
	}

	if err := d.verifyAdmin(ctx, req.GuildID); err != nil {
		return nil, err
	}

	return &model.GetGuildResponse{
		Guild: model.AuthorizedGuild{
			Guild:       *guild,
			GuildStatus: model.GuildStatus{HasBot: true, IsAdmin: true},
		},
	}, nil
}

func (d *guildDomain) GetGuildSettings(
	ctx context.Context, req *model.GetGuildSettingsRequest,
) (*model.GetGuildSettingsResponse, error) {
	if err := validateGuildID(req.GuildID); err != nil {
		return nil, err
	}

	if err := d.verifyAdmin(ctx, req.GuildID); err != nil {
		return nil, err
	}

	settings, err := d.guildSettingsRepo.Get(ctx, req.GuildID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get guild settings: %v", err)
			return nil, errorx.Unknown
		}

		return &model.GetGuildSettingsResponse{Settings: defaultGuildSettings(req.GuildID)}, nil
	}

	return &model.GetGuildSettingsResponse{Settings: convertGuildSettings(settings)}, nil
}

func (d *guildDomain) UpdateGuildSettings(
	ctx context.Context, req *model.UpdateGuildSettingsRequest,
) (*model.UpdateGuildSettingsResponse, error) {
	if err := validateGuildID(req.GuildID); err != nil {
		return nil, err
	}

	if err := d.verifyAdmin(ctx, req.GuildID); err != nil {
		return nil, err
	}

	settings := &entity.GuildSettings{
		GuildID:      req.GuildID,
		Prefix:       strings.TrimSpace(req.Prefix),
		Locale:       req.Locale,
		LogChannelID: req.LogChannelID,
		Modules:      entity.Array[string]{},
		UpdatedBy:    xcontext.RequestUserID(ctx),
		UpdatedAt:    time.Now(),
	}

	if settings.Prefix == "" {
		settings.Prefix = defaultPrefix
	}
	if len(settings.Prefix) > maxPrefixLen || strings.ContainsAny(settings.Prefix, " \t\n") {
		return nil, errorx.New(errorx.BadRequest, "Prefix must have at most %d characters without spaces", maxPrefixLen)
	}

	if settings.Locale == "" {
		settings.Locale = defaultLocale
	}
	if _, err := enum.ToEnum[entity.GuildLocale](settings.Locale); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Unsupported locale %s", settings.Locale)
	}

	if settings.LogChannelID != "" {
		if _, err := snowflake.ParseString(settings.LogChannelID); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid log channel id")
		}
	}

	for _, m := range req.Modules {
		if _, err := enum.ToEnum[entity.GuildModule](m); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Unsupported module %s", m)
		}
		if !slices.Contains(settings.Modules, m) {
			settings.Modules = append(settings.Modules, m)
		}
	}

	if err := d.guildSettingsRepo.Upsert(ctx, settings); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save guild settings: %v", err)
		return nil, errorx.Unknown
	}

	result := convertGuildSettings(settings)
	d.publishAudit(ctx, model.AuditGuildSettingsUpdated, req.GuildID, structs.Map(result))

	return &model.UpdateGuildSettingsResponse{Settings: result}, nil
}

func (d *guildDomain) LeaveGuild(
	ctx context.Context, req *model.LeaveGuildRequest,
) (*model.LeaveGuildResponse, error) {
	if err := validateGuildID(req.GuildID); err != nil {
		return nil, err
	}

	if err := d.verifyAdmin(ctx, req.GuildID); err != nil {
		return nil, err
	}

	via := "bot_api"
	err := d.botAPIEndpoint.LeaveGuild(ctx, req.GuildID)
	if err != nil && d.discordEndpoint.HasBotToken() {
		if !errors.Is(err, botapi.ErrNotConfigured) {
			xcontext.Logger(ctx).Warnf("Cannot leave guild through bot api, use discord: %v", err)
		}

		via = "discord"
		err = d.discordEndpoint.LeaveGuild(ctx, req.GuildID)
	}

	if err != nil {
		if errors.Is(err, discord.ErrNotFound) || errors.Is(err, botapi.ErrNotFound) {
			return nil, errorx.New(errorx.BotNotInGuild, "The bot is not in this guild")
		}

		xcontext.Logger(ctx).Errorf("Cannot leave guild %s: %v", req.GuildID, err)
		return nil, errorx.New(errorx.Unavailable, "Cannot leave the guild, please try again later")
	}

	if err := d.guildSettingsRepo.Delete(ctx, req.GuildID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete settings of guild %s: %v", req.GuildID, err)
	}

	d.publishAudit(ctx, model.AuditGuildLeaveRequested, req.GuildID, structs.Map(model.GuildLeaveAudit{Via: via}))
	return &model.LeaveGuildResponse{}, nil
}

func (d *guildDomain) verifyAdmin(ctx context.Context, guildID string) error {
	if !d.authorizer.HasGuildAdminPermission(
		ctx, xcontext.DiscordAccessToken(ctx), xcontext.RequestUserID(ctx), guildID) {
		return errorx.New(errorx.PermissionDenied, "You are not allowed to manage this guild")
	}

	return nil
}

// publishAudit does not fail the request, the mutation is already applied.
func (d *guildDomain) publishAudit(ctx context.Context, eventType, guildID string, payload map[string]any) {
	event := model.AuditEvent{
		Type:      eventType,
		GuildID:   guildID,
		UserID:    xcontext.RequestUserID(ctx),
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal audit event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	if err := d.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(guildID), Msg: b}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish audit event %s: %v", eventType, err)
	}
}

func validateGuildID(guildID string) error {
	id, err := snowflake.ParseString(guildID)
	if err != nil || id <= 0 {
		return errorx.New(errorx.BadRequest, "Invalid guild id")
	}

	return nil
}

func inviteURL(clientID, guildID string) string {
	query := url.Values{}
	query.Set("client_id", clientID)
	query.Set("permissions", strconv.FormatInt(int64(botInvitePermissions), 10))
	query.Set("scope", "bot applications.commands")
	query.Set("guild_id", guildID)
	query.Set("disable_guild_select", "true")
	return "https://discord.com/oauth2/authorize?" + query.Encode()
}

func defaultGuildSettings(guildID string) model.GuildSettings {
	return model.GuildSettings{
		GuildID: guildID,
		Prefix:  defaultPrefix,
		Locale:  defaultLocale,
		Modules: []string{},
	}
}

func convertGuildSettings(settings *entity.GuildSettings) model.GuildSettings {
	modules := []string(settings.Modules)
	if modules == nil {
		modules = []string{}
	}

	return model.GuildSettings{
		GuildID:      settings.GuildID,
		Prefix:       settings.Prefix,
		Locale:       settings.Locale,
		LogChannelID: settings.LogChannelID,
		Modules:      modules,
		UpdatedBy:    settings.UpdatedBy,
		UpdatedAt:    settings.UpdatedAt,
	}
}
