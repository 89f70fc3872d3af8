package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Server holds the per-guild settings of the bot. Values are treated as
// immutable: the With* and Without* methods return modified copies.
type Server struct {
	GuildID    snowflake.ID
	LogChannel Option[snowflake.ID]
	GoLive     Option[GoLive]
	Shoutout   Option[Shoutout]
}

func NewServer(guildID snowflake.ID) Server {
	return Server{GuildID: guildID}
}

type GoLive struct {
	ChannelID snowflake.ID
	Message   string
}

func (g GoLive) String() string {
	return fmt.Sprintf("<#%d> with message %q", g.ChannelID, g.Message)
}

type Shoutout struct {
	ChannelID snowflake.ID
	RoleID    snowflake.ID
	Message   string
}

func (s Shoutout) String() string {
	return fmt.Sprintf("<#%d> for <@&%d> with message %q", s.ChannelID, s.RoleID, s.Message)
}

func (s Server) WithLogChannel(channelID snowflake.ID) Server {
	s.LogChannel = Some(channelID)
	return s
}

func (s Server) WithoutLogChannel() Server {
	s.LogChannel = None[snowflake.ID]()
	return s
}

func (s Server) WithGoLive(goLive GoLive) Server {
	s.GoLive = Some(goLive)
	return s
}

func (s Server) WithoutGoLive() Server {
	s.GoLive = None[GoLive]()
	return s
}

func (s Server) WithShoutout(shoutout Shoutout) Server {
	s.Shoutout = Some(shoutout)
	return s
}

func (s Server) WithoutShoutout() Server {
	s.Shoutout = None[Shoutout]()
	return s
}

// Feature names a setting that posts into a channel.
type Feature string

const (
	FeatureLogs     Feature = "logs"
	FeatureGoLive   Feature = "golive"
	FeatureShoutout Feature = "shoutout"
)

// Channel returns the channel the feature posts into, if it is enabled.
func (s Server) Channel(feature Feature) (snowflake.ID, bool) {
	switch feature {
	case FeatureLogs:
		return s.LogChannel.Get()
	case FeatureGoLive:
		goLive, ok := s.GoLive.Get()
		return goLive.ChannelID, ok
	case FeatureShoutout:
		shoutout, ok := s.Shoutout.Get()
		return shoutout.ChannelID, ok
	}
	return 0, false
}

func (s Server) Without(feature Feature) Server {
	switch feature {
	case FeatureLogs:
		return s.WithoutLogChannel()
	case FeatureGoLive:
		return s.WithoutGoLive()
	case FeatureShoutout:
		return s.WithoutShoutout()
	}
	return s
}

// Blacklist maps globally banned user IDs to the ban reason.
type Blacklist map[snowflake.ID]string

// IDs returns the blacklisted user IDs in ascending order.
func (b Blacklist) IDs() []snowflake.ID {
	return slices.Sorted(maps.Keys(b))
}
