package discord

import "context"

type IEndpoint interface {
	GetMe(ctx context.Context, token string) (User, error)
	GetCurrentUserGuilds(ctx context.Context, token string) ([]UserGuild, error)
	GetBotGuilds(ctx context.Context) ([]UserGuild, error)
	GetGuild(ctx context.Context, guildID string) (Guild, error)
	GetMember(ctx context.Context, guildID, userID string) (Member, error)
	GetRoles(ctx context.Context, guildID string) ([]Role, error)
	LeaveGuild(ctx context.Context, guildID string) error
	HasBotToken() bool
}
