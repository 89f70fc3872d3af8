package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

const (
	descriptionLimit = 4096
	// bans are paced by the rate limiter, so banning everywhere takes a while
	banTimeout = 10 * time.Minute
)

func (h *Handler) inAdminGuild(event *handler.CommandEvent) bool {
	guildID := event.GuildID()
	return guildID != nil && h.Config.AdminGuildID != 0 && *guildID == h.Config.AdminGuildID
}

func (h *Handler) HandleBlacklistAdd(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !h.inAdminGuild(event) {
		return event.CreateMessage(messageCreate.WithContent("The blacklist can only be managed from the admin server."))
	}
	user := data.User("user")
	reason := data.String("reason")
	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	if err := h.Bot.DB.AddBlacklist(ctx, user.ID, reason); err != nil {
		slog.Error("sushi: error while adding to the blacklist", slog.Any("user.id", user.ID), tint.Err(err))
		_, err = event.CreateFollowupMessage(messageCreate.WithContent("There was an error while updating the blacklist."))
		return err
	}
	content := fmt.Sprintf("%s has been blacklisted.", user.Mention())
	banCtx, banCancel := context.WithTimeout(context.Background(), banTimeout)
	defer banCancel()
	if err := h.Bot.Pipeline.BanEverywhere(banCtx, user.ID, reason); err != nil {
		slog.Warn("sushi: error while banning a blacklisted user", slog.Any("user.id", user.ID), tint.Err(err))
		content += " Some servers could not ban them."
	}
	_, err := event.CreateFollowupMessage(messageCreate.WithContent(content))
	return err
}

func (h *Handler) HandleBlacklistRemove(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !h.inAdminGuild(event) {
		return event.CreateMessage(messageCreate.WithContent("The blacklist can only be managed from the admin server."))
	}
	user := data.User("user")
	ctx, cancel := requestContext()
	defer cancel()
	removed, err := h.Bot.DB.RemoveBlacklist(ctx, user.ID)
	if err != nil {
		slog.Error("sushi: error while removing from the blacklist", slog.Any("user.id", user.ID), tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while updating the blacklist."))
	}
	if !removed {
		return event.CreateMessage(messageCreate.WithContentf("%s is not blacklisted.", user.Mention()))
	}
	return event.CreateMessage(messageCreate.WithContentf("%s has been removed from the blacklist. Existing bans are kept.", user.Mention()))
}

func (h *Handler) HandleBlacklistList(event *handler.CommandEvent) error {
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !h.inAdminGuild(event) {
		return event.CreateMessage(messageCreate.WithContent("The blacklist can only be managed from the admin server."))
	}
	ctx, cancel := requestContext()
	defer cancel()
	bl, err := h.Bot.DB.GetBlacklist(ctx)
	if err != nil {
		slog.Error("sushi: error while getting the blacklist", tint.Err(err))
		return event.CreateMessage(messageCreate.WithContent("There was an error while getting the blacklist."))
	}
	if len(bl) == 0 {
		return event.CreateMessage(messageCreate.WithContent("The blacklist is empty."))
	}
	var sb strings.Builder
	for _, userID := range bl.IDs() {
		line := fmt.Sprintf("<@%d> (`%d`): %s\n", userID, userID, bl[userID])
		if sb.Len()+len(line) > descriptionLimit {
			break
		}
		sb.WriteString(line)
	}
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(fmt.Sprintf("Blacklist (%d)", len(bl)))
	embedBuilder.SetColor(colorMagenta)
	embedBuilder.SetDescription(sb.String())
	return event.CreateMessage(messageCreate.WithEmbeds(embedBuilder.Build()))
}
