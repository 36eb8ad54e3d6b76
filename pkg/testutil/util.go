package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/entity"
	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/questx-lab/dashboard/pkg/logger"
	"github.com/questx-lab/dashboard/pkg/session"
	"github.com/questx-lab/dashboard/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	cfg := config.Configs{
		ApiServer: config.APIServerConfigs{
			DashboardURL: "https://dashboard.example",
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			CallbackBaseURL: "https://api.dashboard.example",
			DiscordOAuth2: config.OAuth2Configs{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
			},
		},
		Session: config.SessionConfigs{
			Name:   "dashboard_session",
			Secret: "session-secret",
		},
		Discord: config.DiscordConfigs{
			BotID:    "1000",
			BotToken: "bot-token",
		},
		Kafka: config.KafkaConfigs{
			Topic: "dashboard_audit",
		},
	}
	config.ApplyDefaults(&cfg)

	return cfg
}

// MockContext returns a context holding the test configs and an empty, migrated, in-memory
// database.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens another database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := MockConfigs()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, session.NewCookieStore(cfg.Session))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUser(userID, discordToken string) context.Context {
	ctx := xcontext.WithRequestUserID(MockContext(), userID)
	return xcontext.WithDiscordAccessToken(ctx, discordToken)
}
