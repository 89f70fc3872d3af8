package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// OnMemberJoin logs the join and bans the member if they are blacklisted.
// Both steps are attempted even if the other one fails.
func (p *Pipeline) OnMemberJoin(ctx context.Context, guildID snowflake.ID, member discord.Member) error {
	embed := MemberJoinEmbed(member)
	logErr := p.logTo(ctx, guildID, &embed)
	banErr := p.enforceOnJoin(ctx, guildID, member.User.ID)
	return errors.Join(logErr, banErr)
}

func (p *Pipeline) OnMemberLeave(ctx context.Context, guildID snowflake.ID, user discord.User) error {
	embed := MemberLeaveEmbed(user)
	return p.logTo(ctx, guildID, &embed)
}

func (p *Pipeline) OnMemberBan(ctx context.Context, guildID snowflake.ID, user discord.User) error {
	embed := MemberBanEmbed(user)
	return p.logTo(ctx, guildID, &embed)
}

func (p *Pipeline) OnMemberUnban(ctx context.Context, guildID snowflake.ID, user discord.User) error {
	embed := MemberUnbanEmbed(user)
	return p.logTo(ctx, guildID, &embed)
}

// OnMemberUpdate logs member changes and, since Discord delivers profile changes as a
// member update in every guild the user shares with the bot, profile changes as well.
func (p *Pipeline) OnMemberUpdate(ctx context.Context, guildID snowflake.ID, before discord.Member, after discord.Member) error {
	memberErr := p.logTo(ctx, guildID, MemberUpdateEmbed(before, after))
	userErr := p.OnUserUpdate(ctx, guildID, before.User, after.User)
	return errors.Join(memberErr, userErr)
}

// OnUserUpdate logs a profile change to one guild the user is in.
func (p *Pipeline) OnUserUpdate(ctx context.Context, guildID snowflake.ID, before discord.User, after discord.User) error {
	embed := UserUpdateEmbed(before, after)
	if embed == nil {
		return nil
	}
	author := discord.EmbedAuthor{Name: "Profile updated"}
	if guild, ok := p.Gateway.Guild(guildID); ok {
		author.IconURL = deref(guild.IconURL())
	}
	embed.Author = &author
	return p.logTo(ctx, guildID, embed)
}

func (p *Pipeline) OnMessageEdit(ctx context.Context, guildID snowflake.ID, before discord.Message, after discord.Message) error {
	return p.logTo(ctx, guildID, MessageEditEmbed(guildID, before, after))
}

func (p *Pipeline) OnMessageDelete(ctx context.Context, guildID snowflake.ID, message discord.Message) error {
	return p.logTo(ctx, guildID, MessageDeleteEmbed(message))
}

// OnServerLeave removes the guild's configuration.
func (p *Pipeline) OnServerLeave(ctx context.Context, guildID snowflake.ID) error {
	if err := p.Configs.DeleteServer(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete config of guild %d: %w", guildID, err)
	}
	slog.Info("sushi: left a guild", slog.Any("guild.id", guildID))
	return nil
}

// OnError forwards an error nobody else handled to the admin channel.
func (p *Pipeline) OnError(ctx context.Context, err error, details string) {
	if p.Reporter == nil {
		slog.Error("sushi: unhandled error", tint.Err(err))
		return
	}
	p.Reporter.Report(ctx, err, details)
}
