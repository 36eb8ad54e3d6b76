package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
env = "test"

[discord]
bot_id = "1000"
bot_token = "file-token"

[guild]
batch_size = 3
request_timeout = "2s"
max_retry_delay = "1m30s"

[cache]
guild_list_ttl = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("API_URL", "http://bot-api:3000")
	t.Setenv("GUILD_BATCH_DELAY", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "1000", cfg.Discord.BotID)
	require.Equal(t, "env-token", cfg.Discord.BotToken)
	require.Equal(t, "http://bot-api:3000", cfg.BotAPI.URL)
	require.Equal(t, 3, cfg.Guild.BatchSize)
	require.Equal(t, 250*time.Millisecond, cfg.Guild.BatchDelay)
	require.Equal(t, 2*time.Second, cfg.Guild.RequestTimeout)
	require.Equal(t, 90*time.Second, cfg.Guild.MaxRetryDelay)
	require.Equal(t, 30*time.Second, cfg.Cache.GuildListTTL)
	require.Equal(t, DefaultBotPresenceTTL, cfg.Cache.BotPresenceTTL)
}

func TestLoad_FileDurations(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", value: `"45s"`, want: 45 * time.Second},
		{name: "compound duration string", value: `"1h30m"`, want: 90 * time.Minute},
		{name: "integer nanoseconds", value: `30000000000`, want: 30 * time.Second},
		{name: "invalid duration string", value: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[cache]\nbot_presence_ttl = " + tt.value + "\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, cfg.Cache.BotPresenceTTL)
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	require.Equal(t, DefaultBatchSize, cfg.Guild.BatchSize)
	require.Equal(t, DefaultGuildListTTL, cfg.Cache.GuildListTTL)
	require.Equal(t, DefaultRequestTimeout, cfg.Guild.RequestTimeout)
	require.Equal(t, DefaultMaxAttempts, cfg.Guild.MaxAttempts)
	require.Equal(t, "memory", cfg.Cache.Backend)
	require.Equal(t, []string{"identify", "guilds"}, cfg.Auth.DiscordOAuth2.Scopes)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("BOT_PRESENCE_TTL", "two minutes")

	_, err := Load("")
	require.Error(t, err)
}
