package events

import (
	"context"
	"slices"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// DiscordGateway implements Gateway on top of the disgo client cache and REST API.
type DiscordGateway struct {
	Client *bot.Client
}

func NewDiscordGateway(client *bot.Client) *DiscordGateway {
	return &DiscordGateway{Client: client}
}

func (g *DiscordGateway) Send(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	_, err := g.Client.Rest.CreateMessage(channelID, message, rest.WithCtx(ctx))
	return err
}

func (g *DiscordGateway) HasChannel(channelID snowflake.ID) bool {
	_, ok := g.Client.Caches.Channel(channelID)
	return ok
}

func (g *DiscordGateway) Ban(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, reason string) error {
	return g.Client.Rest.AddBan(guildID, userID, 0, rest.WithCtx(ctx), rest.WithReason(reason))
}

func (g *DiscordGateway) Leave(ctx context.Context, guildID snowflake.ID) error {
	return g.Client.Rest.LeaveGuild(guildID, rest.WithCtx(ctx))
}

func (g *DiscordGateway) Guild(guildID snowflake.ID) (discord.Guild, bool) {
	return g.Client.Caches.Guild(guildID)
}

func (g *DiscordGateway) Guilds() []discord.Guild {
	return slices.Collect(g.Client.Caches.Guilds())
}

func (g *DiscordGateway) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (discord.Member, error) {
	if member, ok := g.Client.Caches.Member(guildID, userID); ok {
		return member, nil
	}
	member, err := g.Client.Rest.GetMember(guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return discord.Member{}, err
	}
	return *member, nil
}
