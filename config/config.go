package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	ApiServer  APIServerConfigs  `toml:"api_server"`
	Session    SessionConfigs    `toml:"session"`
	Auth       AuthConfigs       `toml:"auth"`
	Discord    DiscordConfigs    `toml:"discord"`
	BotAPI     BotAPIConfigs     `toml:"bot_api"`
	Guild      GuildConfigs      `toml:"guild"`
	Cache      CacheConfigs      `toml:"cache"`
	Database   DatabaseConfigs   `toml:"database"`
	Redis      RedisConfigs      `toml:"redis"`
	Kafka      KafkaConfigs      `toml:"kafka"`
	Prometheus PrometheusConfigs `toml:"prometheus"`
}

type DatabaseConfigs struct {
	Driver   string `toml:"driver"` // mysql or sqlite
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Database
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
	Cert string `toml:"cert"`
	Key  string `toml:"key"`
}

type APIServerConfigs struct {
	ServerConfigs
	AllowedOrigins []string `toml:"allowed_origins"`
	DashboardURL   string   `toml:"dashboard_url"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type SessionConfigs struct {
	Name          string `toml:"name"`
	Secret        string `toml:"secret"`
	EncryptionKey string `toml:"encryption_key"`
	Secure        bool   `toml:"secure"`
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	AccessToken     TokenConfigs  `toml:"access_token"`
	DiscordOAuth2   OAuth2Configs `toml:"discord_oauth2"`
	CallbackBaseURL string        `toml:"callback_base_url"`
}

type OAuth2Configs struct {
	Name         string   `toml:"name"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	Scopes       []string `toml:"scopes"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type DiscordConfigs struct {
	APIURL   string `toml:"api_url"`
	BotToken string `toml:"bot_token"`
	BotID    string `toml:"bot_id"`
}

// BotAPIConfigs points to the companion bot management API. It has its own bearer token and never
// reuses the Discord bot token.
type BotAPIConfigs struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

type GuildConfigs struct {
	BatchSize      int           `toml:"batch_size"`
	BatchDelay     time.Duration `toml:"batch_delay"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxAttempts    int           `toml:"max_attempts"`
	RetryBaseDelay time.Duration `toml:"retry_base_delay"`
	// MaxRetryDelay bounds a retry_after sent by Discord, a longer wait gives up instead.
	MaxRetryDelay time.Duration `toml:"max_retry_delay"`
}

type CacheConfigs struct {
	Backend        string        `toml:"backend"` // memory or redis
	GuildListTTL   time.Duration `toml:"guild_list_ttl"`
	BotPresenceTTL time.Duration `toml:"bot_presence_ttl"`
}

type RedisConfigs struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type KafkaConfigs struct {
	Enabled  bool     `toml:"enabled"`
	ClientID string   `toml:"client_id"`
	Addrs    []string `toml:"addrs"`
	Topic    string   `toml:"topic"`
}

type PrometheusConfigs struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}
