package repository

import (
	"context"

	"github.com/questx-lab/dashboard/internal/entity"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type GuildSettingsRepository interface {
	Get(ctx context.Context, guildID string) (*entity.GuildSettings, error)
	Upsert(ctx context.Context, data *entity.GuildSettings) error
	Delete(ctx context.Context, guildID string) error
}

type guildSettingsRepository struct{}

func NewGuildSettingsRepository() *guildSettingsRepository {
	return &guildSettingsRepository{}
}

func (r *guildSettingsRepository) Get(ctx context.Context, guildID string) (*entity.GuildSettings, error) {
	var result entity.GuildSettings
	err := xcontext.DB(ctx).Where("guild_id=?", guildID).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *guildSettingsRepository) Upsert(ctx context.Context, data *entity.GuildSettings) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guild_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"prefix", "locale", "log_channel_id", "modules", "updated_by", "updated_at",
		}),
	}).Create(data).Error
}

func (r *guildSettingsRepository) Delete(ctx context.Context, guildID string) error {
	return xcontext.DB(ctx).Where("guild_id=?", guildID).Delete(&entity.GuildSettings{}).Error
}
