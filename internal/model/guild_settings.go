package model

import "time"

// GuildSettings is also the audit payload of a settings update, fields carried by the event itself
// are left out of it.
type GuildSettings struct {
	GuildID      string    `json:"guild_id" structs:"-"`
	Prefix       string    `json:"prefix" structs:"prefix"`
	Locale       string    `json:"locale" structs:"locale"`
	LogChannelID string    `json:"log_channel_id" structs:"log_channel_id"`
	Modules      []string  `json:"modules" structs:"modules"`
	UpdatedBy    string    `json:"updated_by" structs:"-"`
	UpdatedAt    time.Time `json:"updated_at" structs:"-"`
}

type GetGuildSettingsRequest struct {
	GuildID string `json:"guild_id" form:"guild_id"`
}

type GetGuildSettingsResponse struct {
	Settings GuildSettings `json:"settings"`
}

type UpdateGuildSettingsRequest struct {
	GuildID      string   `json:"guild_id"`
	Prefix       string   `json:"prefix"`
	Locale       string   `json:"locale"`
	LogChannelID string   `json:"log_channel_id"`
	Modules      []string `json:"modules"`
}

type UpdateGuildSettingsResponse struct {
	Settings GuildSettings `json:"settings"`
}
