package entity

import (
	"time"

	"github.com/questx-lab/dashboard/pkg/enum"
)

type GuildModule string

var (
	GuildModuleModeration = enum.New(GuildModule("moderation"))
	GuildModuleLogging    = enum.New(GuildModule("logging"))
	GuildModuleWelcome    = enum.New(GuildModule("welcome"))
	GuildModuleAutomod    = enum.New(GuildModule("automod"))
	GuildModuleLeveling   = enum.New(GuildModule("leveling"))
)

type GuildLocale string

var (
	GuildLocaleEnUS = enum.New(GuildLocale("en-US"))
	GuildLocaleEnGB = enum.New(GuildLocale("en-GB"))
	GuildLocaleVi   = enum.New(GuildLocale("vi"))
	GuildLocaleFr   = enum.New(GuildLocale("fr"))
	GuildLocaleDe   = enum.New(GuildLocale("de"))
	GuildLocaleEsES = enum.New(GuildLocale("es-ES"))
	GuildLocaleJa   = enum.New(GuildLocale("ja"))
	GuildLocaleKo   = enum.New(GuildLocale("ko"))
	GuildLocaleZhCN = enum.New(GuildLocale("zh-CN"))
)

type GuildSettings struct {
	GuildID      string        `gorm:"primaryKey;size:32"`
	Prefix       string        `gorm:"size:16"`
	Locale       string        `gorm:"size:16"`
	LogChannelID string        `gorm:"size:32"`
	Modules      Array[string] `gorm:"type:text"`
	UpdatedBy    string        `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
