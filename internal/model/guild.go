package model

// Guild is a guild of the signed in user as Discord reports it. Permissions is the decimal encoded
// bitmask of the user in this guild.
type Guild struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        *string  `json:"icon"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features"`
}

// GuildStatus is the authorization of a user in a guild. IsAdmin is never true without HasBot.
type GuildStatus struct {
	HasBot  bool `json:"hasBot"`
	IsAdmin bool `json:"isAdmin"`
}

type AuthorizedGuild struct {
	Guild
	GuildStatus

	// InviteURL is set when the user could manage the guild but the bot is not in it.
	InviteURL string `json:"inviteURL,omitempty"`
}

type GetMyGuildsRequest struct{}

type GetMyGuildsResponse struct {
	Guilds []AuthorizedGuild `json:"guilds"`
}

type GetGuildRequest struct {
	GuildID string `json:"guild_id" form:"guild_id"`
}

type GetGuildResponse struct {
	Guild AuthorizedGuild `json:"guild"`
}

type LeaveGuildRequest struct {
	GuildID string `json:"guild_id"`
}

type LeaveGuildResponse struct{}
