package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sushi-bot/pkg/config"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
	"golang.org/x/time/rate"
)

var ErrChannelNotFound = errors.New("channel not found")

// Pipeline turns gateway events into log embeds, stream announcements and blacklist bans.
type Pipeline struct {
	Gateway     Gateway
	Configs     ConfigStore
	Blacklist   BlacklistStore
	Eligibility EligibilityChecker
	Reporter    *ErrorReporter

	// Streams is optional.
	Streams StreamLookup
	// BanLimiter is optional. It paces every ban the pipeline issues.
	BanLimiter *rate.Limiter
}

// Deliver posts the embed to the guild's log channel. A log channel that no longer
// exists is removed from the configuration instead.
func (p *Pipeline) Deliver(ctx context.Context, cfg config.Server, embed discord.Embed) error {
	channelID, ok := cfg.Channel(config.FeatureLogs)
	if !ok {
		return nil
	}
	if !p.Gateway.HasChannel(channelID) {
		slog.Info("sushi: log channel is gone, disabling logs", slog.Any("guild.id", cfg.GuildID), slog.Any("channel.id", channelID))
		configSelfHeals.WithLabelValues(string(config.FeatureLogs)).Inc()
		if err := p.Configs.DisableFeature(ctx, cfg.GuildID, config.FeatureLogs, channelID); err != nil {
			return fmt.Errorf("failed to disable logs: %w", err)
		}
		return nil
	}
	if embed.Timestamp == nil {
		now := time.Now()
		embed.Timestamp = &now
	}
	if err := p.Gateway.Send(ctx, channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}}); err != nil {
		return fmt.Errorf("failed to send log embed to channel %d: %w", channelID, err)
	}
	notificationsSent.WithLabelValues(string(config.FeatureLogs)).Inc()
	return nil
}

// logTo delivers a possibly suppressed embed. Send failures are only logged;
// store failures are returned.
func (p *Pipeline) logTo(ctx context.Context, guildID snowflake.ID, embed *discord.Embed) error {
	if embed == nil {
		return nil
	}
	cfg, err := p.Configs.GetServer(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get config of guild %d: %w", guildID, err)
	}
	if err := p.Deliver(ctx, cfg, *embed); err != nil {
		slog.Warn("sushi: error while delivering a log embed", slog.Any("guild.id", guildID), tint.Err(err))
	}
	return nil
}
