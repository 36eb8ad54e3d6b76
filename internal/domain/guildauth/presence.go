package guildauth

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/common"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/api/botapi"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/cache"
	"github.com/questx-lab/dashboard/pkg/permission"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

type PresenceChecker interface {
	// CheckBotAndUserStatus reports whether the bot is in the guild and whether the user may
	// manage the guild as the bot sees it. Every failure results in {false, false}.
	CheckBotAndUserStatus(ctx context.Context, guildID, userID string) model.GuildStatus
}

type presenceChecker struct {
	discordEndpoint discord.IEndpoint
	botAPIEndpoint  botapi.IEndpoint

	presenceCache  cache.Cache[model.GuildStatus]
	botGuildsCache cache.Cache[[]string]
	botGuildsGroup singleflight.Group

	botID          string
	requestTimeout time.Duration
}

func NewPresenceChecker(
	discordEndpoint discord.IEndpoint,
	botAPIEndpoint botapi.IEndpoint,
	presenceCache cache.Cache[model.GuildStatus],
	botGuildsCache cache.Cache[[]string],
	cfg config.Configs,
) *presenceChecker {
	return &presenceChecker{
		discordEndpoint: discordEndpoint,
		botAPIEndpoint:  botAPIEndpoint,
		presenceCache:   presenceCache,
		botGuildsCache:  botGuildsCache,
		botID:           cfg.Discord.BotID,
		requestTimeout:  cfg.Guild.RequestTimeout,
	}
}

func (c *presenceChecker) CheckBotAndUserStatus(ctx context.Context, guildID, userID string) model.GuildStatus {
	if !isSnowflake(guildID) || !isSnowflake(userID) {
		xcontext.Logger(ctx).Warnf("Invalid guild or user id: %q %q", guildID, userID)
		return model.GuildStatus{}
	}

	key := common.CacheKeyBotPresence(guildID, userID)
	if status, ok := c.presenceCache.Get(ctx, key); ok {
		return status
	}

	ctx = context.WithoutCancel(ctx)

	var status model.GuildStatus
	var err error
	if c.discordEndpoint.HasBotToken() {
		status, err = c.checkWithBotToken(ctx, guildID, userID)
	} else {
		status, err = c.checkWithBotAPI(ctx, guildID, userID)
	}

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot check bot presence of guild %s: %v", guildID, err)
		status = model.GuildStatus{}
	}

	// Failures are cached as well, an unreachable dependency is not asked again until the entry
	// expires.
	c.presenceCache.Set(ctx, key, status)
	return status
}

func (c *presenceChecker) checkWithBotToken(ctx context.Context, guildID, userID string) (model.GuildStatus, error) {
	botGuildIDs, err := c.botGuildIDs(ctx)
	if err != nil {
		return model.GuildStatus{}, err
	}

	if _, found := slices.BinarySearch(botGuildIDs, guildID); !found {
		return model.GuildStatus{HasBot: false}, nil
	}

	isAdmin, err := c.memberIsAdmin(ctx, guildID, userID)
	if err != nil {
		return model.GuildStatus{}, err
	}

	return model.GuildStatus{HasBot: true, IsAdmin: isAdmin}, nil
}

// botGuildIDs returns the sorted ids of the guilds of the bot. Concurrent callers share one listing.
func (c *presenceChecker) botGuildIDs(ctx context.Context) ([]string, error) {
	key := common.CacheKeyBotGuilds(c.botID)
	if ids, ok := c.botGuildsCache.Get(ctx, key); ok {
		return ids, nil
	}

	v, err, _ := c.botGuildsGroup.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()

		guilds, err := c.discordEndpoint.GetBotGuilds(ctx)
		if err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(guilds))
		for _, g := range guilds {
			ids = append(ids, g.ID)
		}
		slices.Sort(ids)

		c.botGuildsCache.Set(ctx, key, ids)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil
}

// memberIsAdmin computes the permissions of the user from the bot's view of the guild.
func (c *presenceChecker) memberIsAdmin(ctx context.Context, guildID, userID string) (bool, error) {
	tctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	member, err := c.discordEndpoint.GetMember(tctx, guildID, userID)
	cancel()
	if errors.Is(err, discord.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	tctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
	guild, err := c.discordEndpoint.GetGuild(tctx, guildID)
	cancel()
	if err != nil {
		return false, err
	}

	if guild.OwnerID == userID {
		return true, nil
	}

	if member.Permissions != "" {
		return permission.HasManagePermission(member.Permissions), nil
	}

	tctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
	roles, err := c.discordEndpoint.GetRoles(tctx, guildID)
	cancel()
	if err != nil {
		return false, err
	}

	// The @everyone role has the id of the guild.
	granted := []string{}
	for _, role := range roles {
		if role.ID == guildID || slices.Contains(member.Roles, role.ID) {
			granted = append(granted, role.Permissions)
		}
	}

	return permission.HasManagePermission(permission.Combine(granted...)), nil
}

func (c *presenceChecker) checkWithBotAPI(ctx context.Context, guildID, userID string) (model.GuildStatus, error) {
	if !c.botAPIEndpoint.Enabled() {
		xcontext.Logger(ctx).Debugf("Neither bot token nor bot api is configured")
		return model.GuildStatus{}, nil
	}

	tctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	hasBot, err := c.botAPIEndpoint.GetGuildStatus(tctx, guildID)
	cancel()
	if err != nil {
		return model.GuildStatus{}, err
	}

	if !hasBot {
		return model.GuildStatus{HasBot: false}, nil
	}

	tctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
	member, err := c.botAPIEndpoint.GetMember(tctx, guildID, userID)
	cancel()
	if errors.Is(err, botapi.ErrNotFound) {
		return model.GuildStatus{HasBot: true}, nil
	}
	if err != nil {
		return model.GuildStatus{}, err
	}

	isAdmin := member.IsAdmin || permission.IsGuildAdmin(member.Owner, member.Permissions)
	return model.GuildStatus{HasBot: true, IsAdmin: isAdmin}, nil
}

func isSnowflake(id string) bool {
	parsed, err := snowflake.ParseString(id)
	return err == nil && parsed > 0
}
