package handlers

import (
	"fmt"
	"log/slog"
	"sushi-bot/pkg/config"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

func channelMention(id snowflake.ID) string {
	return fmt.Sprintf("<#%d>", id)
}

func canManageServer(event *handler.CommandEvent) bool {
	member := event.Member()
	return member != nil && member.Permissions.Has(discord.PermissionManageGuild)
}

// updateServer applies update to the guild's configuration and saves the result.
func (h *Handler) updateServer(event *handler.CommandEvent, update func(cfg config.Server) config.Server, success string) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	guildID := event.GuildID()
	if guildID == nil {
		return event.CreateMessage(messageCreate.WithContent("This command can only be used in a server."))
	}
	if !canManageServer(event) {
		return event.CreateMessage(messageCreate.WithContent("You need the **Manage Server** permission to do that."))
	}
	ctx, cancel := requestContext()
	defer cancel()
	cfg, err := h.Bot.DB.GetServer(ctx, *guildID)
	if err != nil {
		slog.Error("sushi: error while getting server config", slog.Any("guild.id", *guildID), tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while getting the server configuration."))
	}
	if err := h.Bot.DB.SaveServer(ctx, update(cfg)); err != nil {
		slog.Error("sushi: error while updating server config", slog.Any("guild.id", *guildID), tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while updating the server configuration."))
	}
	return event.CreateMessage(messageCreate.WithContent(success))
}

func (h *Handler) HandleConfigShow(event *handler.CommandEvent) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	guildID := event.GuildID()
	if guildID == nil {
		return event.CreateMessage(messageCreate.WithContent("This command can only be used in a server."))
	}
	ctx, cancel := requestContext()
	defer cancel()
	cfg, err := h.Bot.DB.GetServer(ctx, *guildID)
	if err != nil {
		slog.Error("sushi: error while getting server config", slog.Any("guild.id", *guildID), tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while getting the server configuration."))
	}
	return event.CreateMessage(messageCreate.WithEmbeds(ConfigEmbed(cfg)))
}

func ConfigEmbed(cfg config.Server) discord.Embed {
	logs := "Disabled"
	if channelID, ok := cfg.LogChannel.Get(); ok {
		logs = channelMention(channelID)
	}
	goLive := "Disabled"
	if g, ok := cfg.GoLive.Get(); ok {
		goLive = g.String()
	}
	shoutout := "Disabled"
	if s, ok := cfg.Shoutout.Get(); ok {
		shoutout = s.String()
	}
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle("Server Configuration")
	embedBuilder.SetColor(colorMagenta)
	embedBuilder.AddField("Logs", logs, false)
	embedBuilder.AddField("Go-live", goLive, false)
	embedBuilder.AddField("Shout-out", shoutout, false)
	return embedBuilder.Build()
}

func (h *Handler) HandleLogsSet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	channelID := data.Snowflake("channel")
	return h.updateServer(event, func(cfg config.Server) config.Server {
		return cfg.WithLogChannel(channelID)
	}, "Audit logs will be posted in "+channelMention(channelID)+".")
}

func (h *Handler) HandleLogsDisable(event *handler.CommandEvent) error {
	return h.updateServer(event, config.Server.WithoutLogChannel, "Audit logs have been disabled.")
}

func (h *Handler) HandleGoLiveSet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	goLive := config.GoLive{
		ChannelID: data.Snowflake("channel"),
		Message:   data.String("message"),
	}
	return h.updateServer(event, func(cfg config.Server) config.Server {
		return cfg.WithGoLive(goLive)
	}, "Go-live announcements will be posted in "+channelMention(goLive.ChannelID)+".")
}

func (h *Handler) HandleGoLiveDisable(event *handler.CommandEvent) error {
	return h.updateServer(event, config.Server.WithoutGoLive, "Go-live announcements have been disabled.")
}

func (h *Handler) HandleShoutoutSet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	shoutout := config.Shoutout{
		ChannelID: data.Snowflake("channel"),
		RoleID:    data.Snowflake("role"),
		Message:   data.String("message"),
	}
	return h.updateServer(event, func(cfg config.Server) config.Server {
		return cfg.WithShoutout(shoutout)
	}, "Shout-outs will be posted in "+channelMention(shoutout.ChannelID)+".")
}

func (h *Handler) HandleShoutoutDisable(event *handler.CommandEvent) error {
	return h.updateServer(event, config.Server.WithoutShoutout, "Shout-outs have been disabled.")
}
