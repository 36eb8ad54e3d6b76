package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultGuildListTTL   = 60 * time.Second
	DefaultBotPresenceTTL = 120 * time.Second
	DefaultBatchSize      = 5
	DefaultBatchDelay     = 100 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Second
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = time.Second
	DefaultMaxRetryDelay  = 10 * time.Second
)

// Load reads the TOML file at path (optional), then applies .env and environment variable
// overrides and finally fills defaults.
func Load(path string) (Configs, error) {
	var cfg Configs
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
		}
	}

	// A missing .env file is normal in production.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	setString(&cfg.ApiServer.Host, "API_SERVER_HOST")
	setString(&cfg.ApiServer.Port, "API_SERVER_PORT")
	setString(&cfg.ApiServer.Cert, "API_SERVER_CERT")
	setString(&cfg.ApiServer.Key, "API_SERVER_KEY")
	setString(&cfg.ApiServer.DashboardURL, "DASHBOARD_URL")
	setList(&cfg.ApiServer.AllowedOrigins, "ALLOWED_ORIGINS")

	setString(&cfg.Session.Name, "SESSION_NAME")
	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setString(&cfg.Session.EncryptionKey, "SESSION_ENCRYPTION_KEY")

	setString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	setString(&cfg.Auth.CallbackBaseURL, "AUTH_CALLBACK_BASE_URL")
	setString(&cfg.Auth.DiscordOAuth2.ClientID, "DISCORD_CLIENT_ID")
	setString(&cfg.Auth.DiscordOAuth2.ClientSecret, "DISCORD_CLIENT_SECRET")

	setString(&cfg.Discord.APIURL, "DISCORD_API_URL")
	setString(&cfg.Discord.BotToken, "DISCORD_BOT_TOKEN")
	setString(&cfg.Discord.BotID, "DISCORD_BOT_ID")

	setString(&cfg.BotAPI.URL, "API_URL")
	setString(&cfg.BotAPI.Token, "API_TOKEN")

	setString(&cfg.Cache.Backend, "CACHE_BACKEND")

	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.Host, "DATABASE_HOST")
	setString(&cfg.Database.Port, "DATABASE_PORT")
	setString(&cfg.Database.Database, "DATABASE_NAME")
	setString(&cfg.Database.User, "DATABASE_USER")
	setString(&cfg.Database.Password, "DATABASE_PASSWORD")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setList(&cfg.Kafka.Addrs, "KAFKA_ADDRS")

	durations := map[string]*time.Duration{
		"GUILD_LIST_TTL":          &cfg.Cache.GuildListTTL,
		"BOT_PRESENCE_TTL":        &cfg.Cache.BotPresenceTTL,
		"GUILD_BATCH_DELAY":       &cfg.Guild.BatchDelay,
		"GUILD_REQUEST_TIMEOUT":   &cfg.Guild.RequestTimeout,
		"GUILD_MAX_RETRY_DELAY":   &cfg.Guild.MaxRetryDelay,
		"ACCESS_TOKEN_EXPIRATION": &cfg.Auth.AccessToken.Expiration,
	}
	for key, target := range durations {
		if value := os.Getenv(key); value != "" {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration of %s: %w", key, err)
			}
			*target = d
		}
	}

	if value := os.Getenv("GUILD_BATCH_SIZE"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GUILD_BATCH_SIZE: %w", err)
		}
		cfg.Guild.BatchSize = n
	}

	return nil
}

func ApplyDefaults(cfg *Configs) {
	if cfg.ApiServer.Port == "" {
		cfg.ApiServer.Port = "8080"
	}
	if cfg.Session.Name == "" {
		cfg.Session.Name = "dashboard_session"
	}
	if cfg.Auth.AccessToken.Name == "" {
		cfg.Auth.AccessToken.Name = "access_token"
	}
	if cfg.Auth.AccessToken.Expiration == 0 {
		cfg.Auth.AccessToken.Expiration = 7 * 24 * time.Hour
	}

	if cfg.Discord.APIURL == "" {
		cfg.Discord.APIURL = "https://discord.com/api/v10"
	}

	if cfg.Auth.DiscordOAuth2.Name == "" {
		cfg.Auth.DiscordOAuth2.Name = "discord"
	}
	if cfg.Auth.DiscordOAuth2.AuthURL == "" {
		cfg.Auth.DiscordOAuth2.AuthURL = "https://discord.com/oauth2/authorize"
	}
	if cfg.Auth.DiscordOAuth2.TokenURL == "" {
		cfg.Auth.DiscordOAuth2.TokenURL = "https://discord.com/api/oauth2/token"
	}
	if len(cfg.Auth.DiscordOAuth2.Scopes) == 0 {
		cfg.Auth.DiscordOAuth2.Scopes = []string{"identify", "guilds"}
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.GuildListTTL <= 0 {
		cfg.Cache.GuildListTTL = DefaultGuildListTTL
	}
	if cfg.Cache.BotPresenceTTL <= 0 {
		cfg.Cache.BotPresenceTTL = DefaultBotPresenceTTL
	}

	if cfg.Guild.BatchSize <= 0 {
		cfg.Guild.BatchSize = DefaultBatchSize
	}
	if cfg.Guild.BatchDelay < 0 {
		cfg.Guild.BatchDelay = 0
	} else if cfg.Guild.BatchDelay == 0 {
		cfg.Guild.BatchDelay = DefaultBatchDelay
	}
	if cfg.Guild.RequestTimeout <= 0 {
		cfg.Guild.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Guild.MaxAttempts <= 0 {
		cfg.Guild.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Guild.RetryBaseDelay <= 0 {
		cfg.Guild.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Guild.MaxRetryDelay <= 0 {
		cfg.Guild.MaxRetryDelay = DefaultMaxRetryDelay
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = "dashboard"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "dashboard_audit"
	}
	if cfg.Prometheus.Path == "" {
		cfg.Prometheus.Path = "/metrics"
	}
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setList(target *[]string, key string) {
	if value := os.Getenv(key); value != "" {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*target = items
	}
}
