package main

import (
	"context"
	"time"

	"github.com/questx-lab/dashboard/config"
	"github.com/questx-lab/dashboard/internal/common"
	"github.com/questx-lab/dashboard/internal/domain"
	"github.com/questx-lab/dashboard/internal/domain/guildauth"
	"github.com/questx-lab/dashboard/internal/model"
	"github.com/questx-lab/dashboard/internal/repository"
	"github.com/questx-lab/dashboard/pkg/api/botapi"
	"github.com/questx-lab/dashboard/pkg/api/discord"
	"github.com/questx-lab/dashboard/pkg/authenticator"
	"github.com/questx-lab/dashboard/pkg/cache"
	"github.com/questx-lab/dashboard/pkg/kafka"
	"github.com/questx-lab/dashboard/pkg/logger"
	"github.com/questx-lab/dashboard/pkg/pubsub"
	"github.com/questx-lab/dashboard/pkg/xcontext"
	"github.com/questx-lab/dashboard/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const cacheSweepInterval = time.Minute

type sweeper interface {
	Run(ctx context.Context, interval time.Duration)
}

func (s *srv) loadConfig(ct *cli.Context) {
	cfg, err := config.Load(ct.String(configFlag.Name))
	if err != nil {
		panic(err)
	}

	s.configs = &cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	s.db = s.newDatabase()
	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := s.configs.Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	s.logger.Infof("Connected to %s database", cfg.Driver)
	return db
}

func (s *srv) loadEndpoint() {
	s.discordEndpoint = discord.New(s.configs.Discord)
	s.botAPIEndpoint = botapi.New(s.configs.BotAPI)
	s.oauth2Service = authenticator.NewOAuth2Config(s.configs.Auth)

	if !s.discordEndpoint.HasBotToken() && !s.botAPIEndpoint.Enabled() {
		s.logger.Warnf("Neither bot token nor bot api is configured, no guild will report the bot")
	}
}

func (s *srv) loadRedis() {
	if s.configs.Cache.Backend != "redis" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
	s.logger.Infof("Connected to redis at %s", s.configs.Redis.Addr)
}

func (s *srv) loadCaches() {
	cfg := s.configs.Cache
	if s.redisClient != nil {
		s.guildListCache = cache.NewRedis[[]model.Guild](
			s.redisClient, common.RedisPrefix, cfg.GuildListTTL, cache.WithName("guild_list"))
		s.presenceCache = cache.NewRedis[model.GuildStatus](
			s.redisClient, common.RedisPrefix, cfg.BotPresenceTTL, cache.WithName("bot_presence"))
		s.botGuildsCache = cache.NewRedis[[]string](
			s.redisClient, common.RedisPrefix, cfg.BotPresenceTTL, cache.WithName("bot_guilds"))
		return
	}

	guildListCache := cache.NewMemory[[]model.Guild](cfg.GuildListTTL, cache.WithName("guild_list"))
	presenceCache := cache.NewMemory[model.GuildStatus](cfg.BotPresenceTTL, cache.WithName("bot_presence"))
	botGuildsCache := cache.NewMemory[[]string](cfg.BotPresenceTTL, cache.WithName("bot_guilds"))

	s.guildListCache = guildListCache
	s.presenceCache = presenceCache
	s.botGuildsCache = botGuildsCache
	s.sweepers = []sweeper{guildListCache, presenceCache, botGuildsCache}
}

func (s *srv) loadPublisher() {
	if !s.configs.Kafka.Enabled {
		s.publisher = pubsub.NewNopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, s.configs.Kafka.Addrs)
	if err != nil {
		panic(err)
	}

	s.kafkaPublisher = publisher
	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.guildSettingsRepo = repository.NewGuildSettingsRepository()
}

func (s *srv) loadGuildAuth() {
	s.guildFetcher = guildauth.NewGuildFetcher(s.discordEndpoint, s.guildListCache, s.configs.Guild)
	s.presenceChecker = guildauth.NewPresenceChecker(
		s.discordEndpoint,
		s.botAPIEndpoint,
		s.presenceCache,
		s.botGuildsCache,
		*s.configs,
	)
	s.authorizer = guildauth.NewAuthorizer(s.guildFetcher, s.presenceChecker, s.configs.Guild)
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.oauth2Service, s.discordEndpoint)
	s.guildDomain = domain.NewGuildDomain(
		s.guildFetcher,
		s.authorizer,
		s.guildSettingsRepo,
		s.discordEndpoint,
		s.botAPIEndpoint,
		s.publisher,
	)
}
