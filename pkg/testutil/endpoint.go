package testutil

import (
	"context"
	"errors"

	"github.com/questx-lab/dashboard/pkg/api/botapi"
	"github.com/questx-lab/dashboard/pkg/api/discord"
)

type MockDiscordEndpoint struct {
	GetMeFunc                func(ctx context.Context, token string) (discord.User, error)
	GetCurrentUserGuildsFunc func(ctx context.Context, token string) ([]discord.UserGuild, error)
	GetBotGuildsFunc         func(ctx context.Context) ([]discord.UserGuild, error)
	GetGuildFunc             func(ctx context.Context, guildID string) (discord.Guild, error)
	GetMemberFunc            func(ctx context.Context, guildID, userID string) (discord.Member, error)
	GetRolesFunc             func(ctx context.Context, guildID string) ([]discord.Role, error)
	LeaveGuildFunc           func(ctx context.Context, guildID string) error
	HasBotTokenFunc          func() bool
}

func (e *MockDiscordEndpoint) GetMe(ctx context.Context, token string) (discord.User, error) {
	if e.GetMeFunc != nil {
		return e.GetMeFunc(ctx, token)
	}

	return discord.User{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetCurrentUserGuilds(ctx context.Context, token string) ([]discord.UserGuild, error) {
	if e.GetCurrentUserGuildsFunc != nil {
		return e.GetCurrentUserGuildsFunc(ctx, token)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetBotGuilds(ctx context.Context) ([]discord.UserGuild, error) {
	if e.GetBotGuildsFunc != nil {
		return e.GetBotGuildsFunc(ctx)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetGuild(ctx context.Context, guildID string) (discord.Guild, error) {
	if e.GetGuildFunc != nil {
		return e.GetGuildFunc(ctx, guildID)
	}

	return discord.Guild{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetMember(ctx context.Context, guildID, userID string) (discord.Member, error) {
	if e.GetMemberFunc != nil {
		return e.GetMemberFunc(ctx, guildID, userID)
	}

	return discord.Member{}, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) GetRoles(ctx context.Context, guildID string) ([]discord.Role, error) {
	if e.GetRolesFunc != nil {
		return e.GetRolesFunc(ctx, guildID)
	}

	return nil, errors.New("not implemented")
}

func (e *MockDiscordEndpoint) LeaveGuild(ctx context.Context, guildID string) error {
	if e.LeaveGuildFunc != nil {
		return e.LeaveGuildFunc(ctx, guildID)
	}

	return errors.New("not implemented")
}

func (e *MockDiscordEndpoint) HasBotToken() bool {
	if e.HasBotTokenFunc != nil {
		return e.HasBotTokenFunc()
	}

	return false
}

type MockBotAPIEndpoint struct {
	EnabledFunc        func() bool
	GetGuildStatusFunc func(ctx context.Context, guildID string) (bool, error)
	GetMemberFunc      func(ctx context.Context, guildID, userID string) (botapi.Member, error)
	LeaveGuildFunc     func(ctx context.Context, guildID string) error
}

func (e *MockBotAPIEndpoint) Enabled() bool {
	if e.EnabledFunc != nil {
		return e.EnabledFunc()
	}

	return false
}

func (e *MockBotAPIEndpoint) GetGuildStatus(ctx context.Context, guildID string) (bool, error) {
	if e.GetGuildStatusFunc != nil {
		return e.GetGuildStatusFunc(ctx, guildID)
	}

	return false, botapi.ErrNotConfigured
}

func (e *MockBotAPIEndpoint) GetMember(ctx context.Context, guildID, userID string) (botapi.Member, error) {
	if e.GetMemberFunc != nil {
		return e.GetMemberFunc(ctx, guildID, userID)
	}

	return botapi.Member{}, botapi.ErrNotConfigured
}

func (e *MockBotAPIEndpoint) LeaveGuild(ctx context.Context, guildID string) error {
	if e.LeaveGuildFunc != nil {
		return e.LeaveGuildFunc(ctx, guildID)
	}

	return botapi.ErrNotConfigured
}
