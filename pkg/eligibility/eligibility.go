package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sushi-bot/pkg/events"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

type Discord interface {
	events.MessageSender
	Leave(ctx context.Context, guildID snowflake.ID) error
	Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (discord.Member, error)
}

// Checker only lets the bot stay in guilds owned by members of the home guild.
// With RoleID set, the owner also needs that role there.
type Checker struct {
	discord     Discord
	homeGuildID snowflake.ID
	roleID      snowflake.ID
	admin       events.AdminChannel
}

func NewChecker(d Discord, homeGuildID snowflake.ID, roleID snowflake.ID, admin events.AdminChannel) *Checker {
	return &Checker{
		discord:     d,
		homeGuildID: homeGuildID,
		roleID:      roleID,
		admin:       admin,
	}
}

func (c *Checker) Eligible(ctx context.Context, guild discord.Guild) bool {
	if c.homeGuildID == 0 || guild.ID == c.homeGuildID {
		return true
	}
	owner, err := c.discord.Member(ctx, c.homeGuildID, guild.OwnerID)
	if err != nil {
		return false
	}
	return c.roleID == 0 || slices.Contains(owner.RoleIDs, c.roleID)
}

func (c *Checker) CheckAndLeaveIfIneligible(ctx context.Context, guild discord.Guild) (bool, error) {
	if c.Eligible(ctx, guild) {
		return true, nil
	}
	slog.Info("sushi: leaving an ineligible guild", slog.Any("guild.id", guild.ID), slog.Any("owner.id", guild.OwnerID))
	if err := c.discord.Leave(ctx, guild.ID); err != nil {
		return false, fmt.Errorf("failed to leave guild %d: %w", guild.ID, err)
	}
	if c.admin.Configured() {
		notice := discord.MessageCreate{
			Content:         fmt.Sprintf("Left server **%s** (`%d`): owner <@%d> is not eligible.", guild.Name, guild.ID, guild.OwnerID),
			AllowedMentions: &discord.AllowedMentions{},
		}
		if err := c.discord.Send(ctx, c.admin.ID(), notice); err != nil {
			slog.Warn("sushi: error while sending a leave notice", slog.Any("guild.id", guild.ID), tint.Err(err))
		}
	}
	return false, nil
}
