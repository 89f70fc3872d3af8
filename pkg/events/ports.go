package events

import (
	"context"
	"sushi-bot/pkg/config"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Gateway is the part of the Discord client the pipeline talks to.
type Gateway interface {
	MessageSender
	// HasChannel reports whether the channel is known to the cache.
	HasChannel(channelID snowflake.ID) bool
	Ban(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, reason string) error
	Leave(ctx context.Context, guildID snowflake.ID) error
	Guild(guildID snowflake.ID) (discord.Guild, bool)
	// Guilds returns every guild the bot is currently in.
	Guilds() []discord.Guild
	// Member returns an error when the user is not a member of the guild.
	Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (discord.Member, error)
}

type MessageSender interface {
	Send(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error
}

type ConfigStore interface {
	GetServer(ctx context.Context, guildID snowflake.ID) (config.Server, error)
	// DisableFeature turns a feature off as long as it still posts into channelID.
	DisableFeature(ctx context.Context, guildID snowflake.ID, feature config.Feature, channelID snowflake.ID) error
	DeleteServer(ctx context.Context, guildID snowflake.ID) error
}

type BlacklistStore interface {
	GetBlacklist(ctx context.Context) (config.Blacklist, error)
}

type EligibilityChecker interface {
	// CheckAndLeaveIfIneligible leaves the guild and returns false when its owner may not use the bot.
	CheckAndLeaveIfIneligible(ctx context.Context, guild discord.Guild) (bool, error)
}

// StreamLookup fetches extra details about a live stream. A nil embed means
// nothing is known about the stream.
type StreamLookup interface {
	StreamEmbed(ctx context.Context, streamURL string) (*discord.Embed, error)
}
