package guildauth

import (
	"context"
	"time"

	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/common"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/cache"
	"github.com/questx-lab/dashboard/pkg/retry"
	"github.com/questx-lab/dashboard/pkg/xcontext"
)

type GuildFetcher interface {
	// FetchUserGuilds returns the guilds of the owner of accessToken. It never fails, every error
	// results in an empty list.
	FetchUserGuilds(ctx context.Context, accessToken string) []model.Guild
}

type guildFetcher struct {
	discordEndpoint discord.IEndpoint
	guildCache      cache.Cache[[]model.Guild]

	maxAttempts    int
	baseDelay      time.Duration
	maxDelay       time.Duration
	requestTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewGuildFetcher(
	discordEndpoint discord.IEndpoint,
	guildCache cache.Cache[[]model.Guild],
	cfg config.GuildConfigs,
) *guildFetcher {
	return &guildFetcher{
		discordEndpoint: discordEndpoint,
		guildCache:      guildCache,
		maxAttempts:     cfg.MaxAttempts,
		baseDelay:       cfg.RetryBaseDelay,
		maxDelay:        cfg.MaxRetryDelay,
		requestTimeout:  cfg.RequestTimeout,
		sleep:           retry.Sleep,
	}
}

func (f *guildFetcher) FetchUserGuilds(ctx context.Context, accessToken string) []model.Guild {
	if accessToken == "" {
		return []model.Guild{}
	}

	key := common.CacheKeyGuildList(accessToken)
	if guilds, ok := f.guildCache.Get(ctx, key); ok {
		return guilds
	}

	// Calls run on their own budget even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	var userGuilds []discord.UserGuild
	err := retry.Do(ctx, retry.Policy{
		MaxAttempts: f.maxAttempts,
		Retryable: func(err error) bool {
			_, ok := discord.IsRateLimit(err)
			return ok
		},
		Delay:    retry.ServerOr(retry.Exponential(f.baseDelay)),
		Sleep:    f.sleep,
		MaxDelay: f.maxDelay,
	}, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, f.requestTimeout)
		defer cancel()

		var err error
		userGuilds, err = f.discordEndpoint.GetCurrentUserGuilds(ctx, accessToken)
		if after, ok := discord.IsRateLimit(err); ok {
			xcontext.Logger(ctx).Warnf("Guild list is rate limited, retry after %s", after)
		}

		return err
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fetch user guilds: %v", err)
		return []model.Guild{}
	}

	guilds := make([]model.Guild, 0, len(userGuilds))
	for _, g := range userGuilds {
		guilds = append(guilds, model.Guild{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.Owner,
			Permissions: g.Permissions,
			Features:    g.Features,
		})
	}

	f.guildCache.Set(ctx, key, guilds)
	return guilds
}
