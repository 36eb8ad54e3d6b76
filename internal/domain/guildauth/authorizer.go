// Package guildauth decides which guilds a signed in user may administer through the dashboard.
//
// A guild is administrable only when the user can manage it on Discord and the bot is a member of
// it. Discord permissions alone never grant access.
package guildauth

import (
	"context"
	"time"

	"github.com/pkg/math"
	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/pkg/permission"
	"github.com/questx-lab/dashboard/pkg/retry"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

type Authorizer interface {
	// GetAllUserGuilds returns every guild of the user in Discord's order, annotated with the
	// bot presence and the final admin decision.
	GetAllUserGuilds(ctx context.Context, accessToken, userID string) []model.AuthorizedGuild

	// HasGuildAdminPermission is the gate of mutating guild APIs.
	HasGuildAdminPermission(ctx context.Context, accessToken, userID, guildID string) bool
}

type authorizer struct {
	guildFetcher    GuildFetcher
	presenceChecker PresenceChecker

	batchSize  int
	batchDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewAuthorizer(
	guildFetcher GuildFetcher,
	presenceChecker PresenceChecker,
	cfg config.GuildConfigs,
) *authorizer {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	return &authorizer{
		guildFetcher:    guildFetcher,
		presenceChecker: presenceChecker,
		batchSize:       batchSize,
		batchDelay:      cfg.BatchDelay,
		sleep:           retry.Sleep,
	}
}

func (a *authorizer) GetAllUserGuilds(ctx context.Context, accessToken, userID string) []model.AuthorizedGuild {
	guilds := a.guildFetcher.FetchUserGuilds(ctx, accessToken)

	result := make([]model.AuthorizedGuild, len(guilds))
	candidates := []int{}
	for i, g := range guilds {
		result[i] = model.AuthorizedGuild{Guild: g}
		if permission.IsGuildAdmin(g.Owner, g.Permissions) {
			candidates = append(candidates, i)
		}
	}

	for start := 0; start < len(candidates); start += a.batchSize {
		if start > 0 {
			if err := a.sleep(ctx, a.batchDelay); err != nil {
				xcontext.Logger(ctx).Warnf("Stop checking bot presence: %v", err)
				break
			}
		}

		end := math.MinInt(start+a.batchSize, len(candidates))

		// Each goroutine writes a distinct element of result.
		var eg errgroup.Group
		for _, idx := range candidates[start:end] {
			idx := idx
			eg.Go(func() error {
				status := a.presenceChecker.CheckBotAndUserStatus(ctx, result[idx].ID, userID)
				result[idx].GuildStatus = model.GuildStatus{
					HasBot:  status.HasBot,
					IsAdmin: status.HasBot && permission.IsGuildAdmin(result[idx].Owner, result[idx].Permissions),
				}
				return nil
			})
		}
		_ = eg.Wait()
	}

	return result
}

func (a *authorizer) HasGuildAdminPermission(ctx context.Context, accessToken, userID, guildID string) bool {
	for _, g := range a.guildFetcher.FetchUserGuilds(ctx, accessToken) {
		if g.ID != guildID {
			continue
		}

		if !permission.IsGuildAdmin(g.Owner, g.Permissions) {
			return false
		}

		return a.presenceChecker.CheckBotAndUserStatus(ctx, guildID, userID).HasBot
	}

	return false
}
