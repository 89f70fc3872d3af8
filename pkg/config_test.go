package pkg

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{
		"SUSHI_BOT_TOKEN": "token",
		"DATABASE_URL":    "postgres://localhost/sushi",
	}})
	require.NoError(t, err)
	assert.Equal(t, "DEV", cfg.Environment)
	assert.False(t, cfg.Production())
	assert.Equal(t, 2.0, cfg.BansPerSecond)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "log.log", cfg.DebugLogPath)
	assert.Zero(t, cfg.AdminGuildID)
	assert.Equal(t, 10000, cfg.MessageCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.MessageCacheTTL)
}

func TestConfigParsesIDs(t *testing.T) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{
		"SUSHI_BOT_TOKEN":         "token",
		"DATABASE_URL":            "postgres://localhost/sushi",
		"SUSHI_ENVIRONMENT":       "PROD",
		"SUSHI_ADMIN_GUILD_ID":    "1100000000000000000",
		"SUSHI_COMMAND_GUILD_IDS": "1,2",
		"SUSHI_LOG_LEVEL":         "DEBUG",
	}})
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, snowflake.ID(1100000000000000000), cfg.AdminGuildID)
	assert.Equal(t, []snowflake.ID{1, 2}, cfg.CommandGuildIDs)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfigRequiresToken(t *testing.T) {
	_, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{
		"DATABASE_URL": "postgres://localhost/sushi",
	}})
	assert.Error(t, err)
}
