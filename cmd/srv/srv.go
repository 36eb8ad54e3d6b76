package main

import (
	"context"
	"net/http"

	"github.com/questx-lab/dashboard/config"
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
	"github.com/questx-lab/dashboard/pkg/router"
	"github.com/questx-lab/dashboard/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	logger  logger.Logger

	db          *gorm.DB
	redisClient xredis.Client
	publisher   pubsub.Publisher

	kafkaPublisher *kafka.Publisher

	discordEndpoint discord.IEndpoint
	botAPIEndpoint  botapi.IEndpoint
	oauth2Service   authenticator.IOAuth2Service

	guildListCache cache.Cache[[]model.Guild]
	presenceCache  cache.Cache[model.GuildStatus]
	botGuildsCache cache.Cache[[]string]
	// Memory caches are swept in the background, redis expires its own keys.
	sweepers []sweeper

	guildSettingsRepo repository.GuildSettingsRepository

	guildFetcher    guildauth.GuildFetcher
	presenceChecker guildauth.PresenceChecker
	authorizer      guildauth.Authorizer

	authDomain  domain.AuthDomain
	guildDomain domain.GuildDomain

	router *router.Router
	server *http.Server
}
