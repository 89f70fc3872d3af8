package pkg

import (
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Config struct {
	Token       string `env:"SUSHI_BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"SUSHI_ENVIRONMENT" envDefault:"DEV"`

	// AdminGuildID is the home guild. Guild owners must be members of it.
	AdminGuildID    snowflake.ID   `env:"SUSHI_ADMIN_GUILD_ID"`
	AdminChannelID  snowflake.ID   `env:"SUSHI_ADMIN_CHANNEL_ID"`
	EligibleRoleID  snowflake.ID   `env:"SUSHI_ELIGIBLE_ROLE_ID"`
	CommandGuildIDs []snowflake.ID `env:"SUSHI_COMMAND_GUILD_IDS" envSeparator:","`

	BansPerSecond float64    `env:"SUSHI_BAN_RATE" envDefault:"2"`
	MetricsListen string     `env:"SUSHI_METRICS_LISTEN"`
	LogLevel      slog.Level `env:"SUSHI_LOG_LEVEL" envDefault:"INFO"`
	DebugLogPath  string     `env:"SUSHI_DEBUG_LOG" envDefault:"log.log"`
	KitsuURL      string     `env:"SUSHI_KITSU_URL" envDefault:"https://kitsu.io/api/edge"`

	MessageCacheSize int           `env:"SUSHI_MESSAGE_CACHE_SIZE" envDefault:"10000"`
	MessageCacheTTL  time.Duration `env:"SUSHI_MESSAGE_CACHE_TTL" envDefault:"24h"`

	TwitchClientID     string `env:"TWITCH_CLIENT_ID"`
	TwitchClientSecret string `env:"TWITCH_CLIENT_SECRET"`
}

func (c Config) Production() bool {
	return c.Environment == "PROD"
}
