package testutil

import (
	"context"

	"github.com/questx-lab/dashboard/internal/model"
)

type MockGuildFetcher struct {
	FetchUserGuildsFunc func(ctx context.Context, accessToken string) []model.Guild
}

func (m *MockGuildFetcher) FetchUserGuilds(ctx context.Context, accessToken string) []model.Guild {
	if m.FetchUserGuildsFunc != nil {
		return m.FetchUserGuildsFunc(ctx, accessToken)
	}

	return []model.Guild{}
}

type MockPresenceChecker struct {
	CheckBotAndUserStatusFunc func(ctx context.Context, guildID, userID string) model.GuildStatus
}

func (m *MockPresenceChecker) CheckBotAndUserStatus(ctx context.Context, guildID, userID string) model.GuildStatus {
	if m.CheckBotAndUserStatusFunc != nil {
		return m.CheckBotAndUserStatusFunc(ctx, guildID, userID)
	}

	return model.GuildStatus{}
}

type MockAuthorizer struct {
	GetAllUserGuildsFunc        func(ctx context.Context, accessToken, userID string) []model.AuthorizedGuild
	HasGuildAdminPermissionFunc func(ctx context.Context, accessToken, userID, guildID string) bool
}

func (m *MockAuthorizer) GetAllUserGuilds(ctx context.Context, accessToken, userID string) []model.AuthorizedGuild {
	if m.GetAllUserGuildsFunc != nil {
		return m.GetAllUserGuildsFunc(ctx, accessToken, userID)
	}

	return []model.AuthorizedGuild{}
}

func (m *MockAuthorizer) HasGuildAdminPermission(ctx context.Context, accessToken, userID, guildID string) bool {
	if m.HasGuildAdminPermissionFunc != nil {
		return m.HasGuildAdminPermissionFunc(ctx, accessToken, userID, guildID)
	}

	return false
}
