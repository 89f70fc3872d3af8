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

// OnServerJoin leaves guilds whose owner is not eligible and bans every blacklisted
// user from the others.
func (p *Pipeline) OnServerJoin(ctx context.Context, guild discord.Guild) error {
	eligible, err := p.Eligibility.CheckAndLeaveIfIneligible(ctx, guild)
	if err != nil {
		return fmt.Errorf("failed to check eligibility of guild %d: %w", guild.ID, err)
	}
	if !eligible {
		return nil
	}
	slog.Info("sushi: joined a guild", slog.Any("guild.id", guild.ID), slog.String("guild.name", guild.Name))

	bl, err := p.Blacklist.GetBlacklist(ctx)
	if err != nil {
		return fmt.Errorf("failed to get blacklist: %w", err)
	}
	var errs []error
	for _, userID := range bl.IDs() {
		if err := p.ban(ctx, guild.ID, userID, bl[userID], "server_join"); err != nil {
			slog.Warn("sushi: error while banning a blacklisted user", slog.Any("guild.id", guild.ID), slog.Any("user.id", userID), tint.Err(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BanEverywhere bans the user from every guild the bot is in.
func (p *Pipeline) BanEverywhere(ctx context.Context, userID snowflake.ID, reason string) error {
	var errs []error
	for _, guild := range p.Gateway.Guilds() {
		if err := p.ban(ctx, guild.ID, userID, reason, "blacklist_add"); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pipeline) enforceOnJoin(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) error {
	bl, err := p.Blacklist.GetBlacklist(ctx)
	if err != nil {
		return fmt.Errorf("failed to get blacklist: %w", err)
	}
	reason, ok := bl[userID]
	if !ok {
		return nil
	}
	return p.ban(ctx, guildID, userID, reason, "member_join")
}

func (p *Pipeline) ban(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, reason string, trigger string) error {
	if p.BanLimiter != nil {
		if err := p.BanLimiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := p.Gateway.Ban(ctx, guildID, userID, reason); err != nil {
		return fmt.Errorf("failed to ban user %d from guild %d: %w", userID, guildID, err)
	}
	blacklistBans.WithLabelValues(trigger).Inc()
	return nil
}
