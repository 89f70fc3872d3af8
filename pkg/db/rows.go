package db

import (
	"sushi-bot/pkg/config"

	"github.com/disgoorg/snowflake/v2"
)

type serverRow struct {
	GuildID           int64   `db:"guild_id"`
	LogChannelID      *int64  `db:"log_channel_id"`
	GoLiveChannelID   *int64  `db:"go_live_channel_id"`
	GoLiveMessage     *string `db:"go_live_message"`
	ShoutoutChannelID *int64  `db:"shoutout_channel_id"`
	ShoutoutRoleID    *int64  `db:"shoutout_role_id"`
	ShoutoutMessage   *string `db:"shoutout_message"`
}

type blacklistRow struct {
	UserID int64  `db:"user_id"`
	Reason string `db:"reason"`
}

func newServerRow(cfg config.Server) serverRow {
	row := serverRow{GuildID: int64(cfg.GuildID)}
	if channelID, ok := cfg.LogChannel.Get(); ok {
		row.LogChannelID = idPtr(channelID)
	}
	if goLive, ok := cfg.GoLive.Get(); ok {
		row.GoLiveChannelID = idPtr(goLive.ChannelID)
		row.GoLiveMessage = &goLive.Message
	}
	if shoutout, ok := cfg.Shoutout.Get(); ok {
		row.ShoutoutChannelID = idPtr(shoutout.ChannelID)
		row.ShoutoutRoleID = idPtr(shoutout.RoleID)
		row.ShoutoutMessage = &shoutout.Message
	}
	return row
}

func (r serverRow) toConfig() config.Server {
	cfg := config.NewServer(snowflake.ID(r.GuildID))
	if r.LogChannelID != nil {
		cfg = cfg.WithLogChannel(snowflake.ID(*r.LogChannelID))
	}
	if r.GoLiveChannelID != nil {
		cfg = cfg.WithGoLive(config.GoLive{
			ChannelID: snowflake.ID(*r.GoLiveChannelID),
			Message:   deref(r.GoLiveMessage),
		})
	}
	// a shout-out without its role is unusable
	if r.ShoutoutChannelID != nil && r.ShoutoutRoleID != nil {
		cfg = cfg.WithShoutout(config.Shoutout{
			ChannelID: snowflake.ID(*r.ShoutoutChannelID),
			RoleID:    snowflake.ID(*r.ShoutoutRoleID),
			Message:   deref(r.ShoutoutMessage),
		})
	}
	return cfg
}

func idPtr(id snowflake.ID) *int64 {
	v := int64(id)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
