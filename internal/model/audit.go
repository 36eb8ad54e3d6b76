package model

import "time"

const (
	AuditGuildSettingsUpdated = "guild_settings_updated"
	AuditGuildLeaveRequested  = "guild_leave_requested"
)

type AuditEvent struct {
	Type      string         `json:"type"`
	GuildID   string         `json:"guild_id"`
	UserID    string         `json:"user_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type GuildLeaveAudit struct {
	Via string `structs:"via"`
}
