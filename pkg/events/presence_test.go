package events

import (
	"context"
	"errors"
	"testing"

	"sushi-bot/pkg/config"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerID        snowflake.ID = 1
	streamerID     snowflake.ID = 2
	goLiveChannel  snowflake.ID = 400
	shoutChannel   snowflake.ID = 500
	shoutoutRoleID snowflake.ID = 600
)

func twitch(url string) discord.Activity {
	return discord.Activity{Name: "Twitch", Type: discord.ActivityTypeStreaming, URL: &url}
}

func presence(userID snowflake.ID, status discord.OnlineStatus, activities ...discord.Activity) *discord.Presence {
	return &discord.Presence{
		PresenceUser: discord.PresenceUser{ID: userID},
		GuildID:      guildID,
		Status:       status,
		Activities:   activities,
	}
}

func newStreamEnv() *testEnv {
	cfg := config.NewServer(guildID).
		WithGoLive(config.GoLive{ChannelID: goLiveChannel, Message: "{user} is live"}).
		WithShoutout(config.Shoutout{ChannelID: shoutChannel, RoleID: shoutoutRoleID, Message: "go watch {name}"})
	env := newTestEnv(nil, cfg)
	env.gateway.guilds = []discord.Guild{{ID: guildID, OwnerID: ownerID}}
	env.gateway.channels[goLiveChannel] = true
	env.gateway.channels[shoutChannel] = true
	env.gateway.addMember(guildID, discord.Member{User: user(ownerID, "owner")})
	env.gateway.addMember(guildID, discord.Member{User: user(streamerID, "streamer"), RoleIDs: []snowflake.ID{shoutoutRoleID}})
	return env
}

func TestPresenceOwnerGoesLive(t *testing.T) {
	env := newStreamEnv()
	before := presence(ownerID, discord.OnlineStatusOnline)
	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))

	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), before, after))
	require.Len(t, env.gateway.sent, 1)
	assert.Equal(t, goLiveChannel, env.gateway.sent[0].channelID)
	assert.Equal(t, "<@1> is live\nhttps://twitch.tv/owner", env.gateway.sent[0].message.Content)
}

func TestPresenceShoutout(t *testing.T) {
	env := newStreamEnv()
	before := presence(streamerID, discord.OnlineStatusIdle)
	after := presence(streamerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/streamer"))

	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), before, after))
	require.Len(t, env.gateway.sent, 1)
	assert.Equal(t, shoutChannel, env.gateway.sent[0].channelID)
	assert.Equal(t, "go watch streamer\nhttps://twitch.tv/streamer", env.gateway.sent[0].message.Content)
}

func TestPresenceShoutoutRequiresRole(t *testing.T) {
	env := newStreamEnv()
	env.gateway.addMember(guildID, discord.Member{User: user(streamerID, "streamer")})

	after := presence(streamerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/streamer"))
	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), presence(streamerID, discord.OnlineStatusOnline), after))
	assert.Empty(t, env.gateway.sent)
}

func TestPresenceIgnored(t *testing.T) {
	stream := twitch("https://twitch.tv/owner")
	tests := []struct {
		name   string
		before *discord.Presence
		after  *discord.Presence
	}{
		{"no before", nil, presence(ownerID, discord.OnlineStatusOnline, stream)},
		{"offline before", presence(ownerID, discord.OnlineStatusOffline), presence(ownerID, discord.OnlineStatusOnline, stream)},
		{"offline after", presence(ownerID, discord.OnlineStatusOnline), presence(ownerID, discord.OnlineStatusOffline, stream)},
		{"not streaming", presence(ownerID, discord.OnlineStatusOnline), presence(ownerID, discord.OnlineStatusOnline, discord.Activity{Name: "Twitch", Type: discord.ActivityTypeGame})},
		{"other platform", presence(ownerID, discord.OnlineStatusOnline), presence(ownerID, discord.OnlineStatusOnline, discord.Activity{Name: "YouTube", Type: discord.ActivityTypeStreaming})},
		{"same stream", presence(ownerID, discord.OnlineStatusOnline, stream), presence(ownerID, discord.OnlineStatusOnline, stream)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newStreamEnv()
			require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), tt.before, tt.after))
			assert.Empty(t, env.gateway.sent)
			assert.Empty(t, env.store.disables)
		})
	}
}

func TestPresenceNewStreamURL(t *testing.T) {
	env := newStreamEnv()
	before := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/old"))
	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))

	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), before, after))
	assert.Len(t, env.gateway.sent, 1)
}

func TestPresenceOwnerWithoutGoLiveGetsNoShoutout(t *testing.T) {
	env := newStreamEnv()
	env.store.servers[guildID] = env.store.servers[guildID].WithoutGoLive()
	env.gateway.addMember(guildID, discord.Member{User: user(ownerID, "owner"), RoleIDs: []snowflake.ID{shoutoutRoleID}})

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after))
	assert.Empty(t, env.gateway.sent)
}

func TestPresenceSendFailureDisablesGoLive(t *testing.T) {
	env := newStreamEnv()
	env.gateway.sendErr = errSend

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	err := env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after)
	assert.ErrorIs(t, err, errSend)
	assert.Equal(t, []disabledFeature{{guildID: guildID, feature: config.FeatureGoLive, channelID: goLiveChannel}}, env.store.disables)
	assert.False(t, env.store.server(guildID).GoLive.IsSome())
	assert.True(t, env.store.server(guildID).Shoutout.IsSome())
}

func TestPresenceMissingChannelDisablesShoutout(t *testing.T) {
	env := newStreamEnv()
	delete(env.gateway.channels, shoutChannel)

	after := presence(streamerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/streamer"))
	err := env.pipeline.OnPresenceUpdate(context.Background(), presence(streamerID, discord.OnlineStatusOnline), after)
	assert.ErrorIs(t, err, ErrChannelNotFound)
	require.Len(t, env.store.disables, 1)
	assert.False(t, env.store.server(guildID).Shoutout.IsSome())
	assert.True(t, env.store.server(guildID).GoLive.IsSome())
}

type countingStreams struct {
	calls int
}

func (s *countingStreams) StreamEmbed(context.Context, string) (*discord.Embed, error) {
	s.calls++
	return nil, nil
}

func TestPresenceMissingChannelSkipsStreamLookup(t *testing.T) {
	env := newStreamEnv()
	streams := &countingStreams{}
	env.pipeline.Streams = streams
	delete(env.gateway.channels, goLiveChannel)

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	err := env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after)
	assert.ErrorIs(t, err, ErrChannelNotFound)
	assert.Zero(t, streams.calls)
}

func TestPresenceOwnerWithRoleGetsOnlyGoLive(t *testing.T) {
	env := newStreamEnv()
	env.gateway.addMember(guildID, discord.Member{User: user(ownerID, "owner"), RoleIDs: []snowflake.ID{shoutoutRoleID}})

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after))
	require.Len(t, env.gateway.sent, 1)
	assert.Equal(t, goLiveChannel, env.gateway.sent[0].channelID)
}

func TestPresenceAttachesStreamEmbed(t *testing.T) {
	env := newStreamEnv()
	env.pipeline.Streams = fakeStreams{embed: &discord.Embed{Title: "Speedrun"}}

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after))
	require.Len(t, env.gateway.sent, 1)
	require.Len(t, env.gateway.sent[0].message.Embeds, 1)
	assert.Equal(t, "Speedrun", env.gateway.sent[0].message.Embeds[0].Title)
}

func TestPresenceStreamLookupFailureStillPosts(t *testing.T) {
	env := newStreamEnv()
	env.pipeline.Streams = fakeStreams{err: errors.New("helix down")}

	after := presence(ownerID, discord.OnlineStatusOnline, twitch("https://twitch.tv/owner"))
	require.NoError(t, env.pipeline.OnPresenceUpdate(context.Background(), presence(ownerID, discord.OnlineStatusOnline), after))
	require.Len(t, env.gateway.sent, 1)
	assert.Empty(t, env.gateway.sent[0].message.Embeds)
}

func TestStreamActivityTakesFirstTwitchStream(t *testing.T) {
	p := presence(ownerID, discord.OnlineStatusOnline,
		discord.Activity{Name: "Game", Type: discord.ActivityTypeGame},
		twitch("https://twitch.tv/a"),
		twitch("https://twitch.tv/b"),
	)
	activity, ok := StreamActivity(*p)
	require.True(t, ok)
	assert.Equal(t, "https://twitch.tv/a", *activity.URL)
}

func TestFormatGoLivePost(t *testing.T) {
	member := discord.Member{User: user(9, "nine")}
	stream := twitch("https://twitch.tv/nine")
	stream.Details = strPtr("Any%")
	stream.State = strPtr("Celeste")

	assert.Equal(t, "<@9> plays Celeste: Any% at https://twitch.tv/nine",
		FormatGoLivePost("{user} plays {game}: {title} at {url}", member, stream))
	assert.Equal(t, "<@9> is now live!\nhttps://twitch.tv/nine", FormatGoLivePost("", member, stream))
}
