package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sushi-bot/pkg/config"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const (
	twitchActivityName = "Twitch"
	defaultPostMessage = "{user} is now live!"
)

// OnPresenceUpdate announces a member who just started streaming on Twitch. The guild
// owner gets the go-live post and everyone else holding the shout-out role gets a shout-out.
func (p *Pipeline) OnPresenceUpdate(ctx context.Context, before *discord.Presence, after *discord.Presence) error {
	if before == nil || after == nil ||
		before.Status == discord.OnlineStatusOffline || after.Status == discord.OnlineStatusOffline {
		return nil
	}
	stream, ok := StreamActivity(*after)
	if !ok {
		return nil
	}
	if old, ok := StreamActivity(*before); ok && deref(old.URL) == deref(stream.URL) {
		return nil
	}

	guild, ok := p.Gateway.Guild(after.GuildID)
	if !ok {
		slog.Debug("sushi: guild missing in cache", slog.Any("guild.id", after.GuildID))
		return nil
	}
	cfg, err := p.Configs.GetServer(ctx, guild.ID)
	if err != nil {
		return fmt.Errorf("failed to get config of guild %d: %w", guild.ID, err)
	}
	userID := after.PresenceUser.ID
	if userID == guild.OwnerID {
		goLive, ok := cfg.GoLive.Get()
		if !ok {
			return nil
		}
		member, err := p.Gateway.Member(ctx, guild.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to get owner of guild %d: %w", guild.ID, err)
		}
		return p.announce(ctx, config.FeatureGoLive, guild.ID, goLive.ChannelID, goLive.Message, member, stream)
	}

	shoutout, ok := cfg.Shoutout.Get()
	if !ok {
		return nil
	}
	member, err := p.Gateway.Member(ctx, guild.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to get member %d of guild %d: %w", userID, guild.ID, err)
	}
	if !slices.Contains(member.RoleIDs, shoutout.RoleID) {
		return nil
	}
	return p.announce(ctx, config.FeatureShoutout, guild.ID, shoutout.ChannelID, shoutout.Message, member, stream)
}

// announce posts the stream. When that fails the feature is switched off and the
// error is returned.
func (p *Pipeline) announce(ctx context.Context, feature config.Feature, guildID snowflake.ID, channelID snowflake.ID,
	template string, member discord.Member, stream discord.Activity) error {
	err := ErrChannelNotFound
	if p.Gateway.HasChannel(channelID) {
		err = p.Gateway.Send(ctx, channelID, p.streamPost(ctx, template, member, stream))
	}
	if err == nil {
		notificationsSent.WithLabelValues(string(feature)).Inc()
		return nil
	}

	configSelfHeals.WithLabelValues(string(feature)).Inc()
	err = fmt.Errorf("failed to post %s in channel %d of guild %d: %w", feature, channelID, guildID, err)
	if disableErr := p.Configs.DisableFeature(ctx, guildID, feature, channelID); disableErr != nil {
		return errors.Join(err, fmt.Errorf("failed to disable %s: %w", feature, disableErr))
	}
	return err
}

func (p *Pipeline) streamPost(ctx context.Context, template string, member discord.Member, stream discord.Activity) discord.MessageCreate {
	message := discord.MessageCreate{Content: FormatGoLivePost(template, member, stream)}
	if p.Streams == nil {
		return message
	}
	embed, err := p.Streams.StreamEmbed(ctx, deref(stream.URL))
	if err != nil {
		slog.Warn("sushi: error while looking up a stream", slog.String("stream.url", deref(stream.URL)), tint.Err(err))
	} else if embed != nil {
		message.Embeds = []discord.Embed{*embed}
	}
	return message
}

// StreamActivity returns the first Twitch streaming activity of the presence.
func StreamActivity(presence discord.Presence) (discord.Activity, bool) {
	for _, activity := range presence.Activities {
		if activity.Type == discord.ActivityTypeStreaming && activity.Name == twitchActivityName {
			return activity, true
		}
	}
	return discord.Activity{}, false
}

// FormatGoLivePost fills in the {user}, {name}, {url}, {title} and {game} placeholders.
// The stream URL is appended when the template does not place it.
func FormatGoLivePost(template string, member discord.Member, stream discord.Activity) string {
	if strings.TrimSpace(template) == "" {
		template = defaultPostMessage
	}
	url := deref(stream.URL)
	post := strings.NewReplacer(
		"{user}", member.User.Mention(),
		"{name}", member.EffectiveName(),
		"{url}", url,
		"{title}", deref(stream.Details),
		"{game}", deref(stream.State),
	).Replace(template)
	if url != "" && !strings.Contains(template, "{url}") {
		post += "\n" + url
	}
	return post
}
