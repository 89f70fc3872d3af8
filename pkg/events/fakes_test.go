package events

import (
	"context"
	"errors"
	"sushi-bot/pkg/config"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

var errSend = errors.New("missing access")

type sentMessage struct {
	channelID snowflake.ID
	message   discord.MessageCreate
}

type ban struct {
	guildID snowflake.ID
	userID  snowflake.ID
	reason  string
}

type fakeGateway struct {
	mu       sync.Mutex
	channels map[snowflake.ID]bool
	guilds   []discord.Guild
	members  map[snowflake.ID]map[snowflake.ID]discord.Member
	sendErr  error
	banErr   error

	sent   []sentMessage
	bans   []ban
	leaves []snowflake.ID
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		channels: map[snowflake.ID]bool{},
		members:  map[snowflake.ID]map[snowflake.ID]discord.Member{},
	}
}

func (g *fakeGateway) addMember(guildID snowflake.ID, member discord.Member) {
	if g.members[guildID] == nil {
		g.members[guildID] = map[snowflake.ID]discord.Member{}
	}
	g.members[guildID][member.User.ID] = member
}

func (g *fakeGateway) Send(_ context.Context, channelID snowflake.ID, message discord.MessageCreate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMessage{channelID: channelID, message: message})
	return nil
}

func (g *fakeGateway) HasChannel(channelID snowflake.ID) bool {
	return g.channels[channelID]
}

func (g *fakeGateway) Ban(_ context.Context, guildID snowflake.ID, userID snowflake.ID, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bans = append(g.bans, ban{guildID: guildID, userID: userID, reason: reason})
	return g.banErr
}

func (g *fakeGateway) banCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.bans)
}

func (g *fakeGateway) Leave(_ context.Context, guildID snowflake.ID) error {
	g.leaves = append(g.leaves, guildID)
	return nil
}

func (g *fakeGateway) Guild(guildID snowflake.ID) (discord.Guild, bool) {
	for _, guild := range g.guilds {
		if guild.ID == guildID {
			return guild, true
		}
	}
	return discord.Guild{}, false
}

func (g *fakeGateway) Guilds() []discord.Guild {
	return g.guilds
}

func (g *fakeGateway) Member(_ context.Context, guildID snowflake.ID, userID snowflake.ID) (discord.Member, error) {
	member, ok := g.members[guildID][userID]
	if !ok {
		return discord.Member{}, errors.New("unknown member")
	}
	return member, nil
}

type disabledFeature struct {
	guildID   snowflake.ID
	feature   config.Feature
	channelID snowflake.ID
}

type fakeStore struct {
	mu       sync.Mutex
	servers  map[snowflake.ID]config.Server
	disables []disabledFeature
	deleted  []snowflake.ID
}

func newFakeStore(servers ...config.Server) *fakeStore {
	s := &fakeStore{servers: map[snowflake.ID]config.Server{}}
	for _, server := range servers {
		s.servers[server.GuildID] = server
	}
	return s
}

func (s *fakeStore) GetServer(_ context.Context, guildID snowflake.ID) (config.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.servers[guildID]
	if !ok {
		cfg = config.NewServer(guildID)
		s.servers[guildID] = cfg
	}
	return cfg, nil
}

func (s *fakeStore) DisableFeature(_ context.Context, guildID snowflake.ID, feature config.Feature, channelID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disables = append(s.disables, disabledFeature{guildID: guildID, feature: feature, channelID: channelID})
	if cfg, ok := s.servers[guildID]; ok {
		if current, ok := cfg.Channel(feature); ok && current == channelID {
			s.servers[guildID] = cfg.Without(feature)
		}
	}
	return nil
}

func (s *fakeStore) server(guildID snowflake.ID) config.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.servers[guildID]
}

func (s *fakeStore) DeleteServer(_ context.Context, guildID snowflake.ID) error {
	delete(s.servers, guildID)
	s.deleted = append(s.deleted, guildID)
	return nil
}

type fakeBlacklist config.Blacklist

func (b fakeBlacklist) GetBlacklist(context.Context) (config.Blacklist, error) {
	return config.Blacklist(b), nil
}

type fakeEligibility struct {
	eligible bool
	checked  []snowflake.ID
}

func (e *fakeEligibility) CheckAndLeaveIfIneligible(_ context.Context, guild discord.Guild) (bool, error) {
	e.checked = append(e.checked, guild.ID)
	return e.eligible, nil
}

type fakeStreams struct {
	embed *discord.Embed
	err   error
}

func (s fakeStreams) StreamEmbed(context.Context, string) (*discord.Embed, error) {
	return s.embed, s.err
}

type testEnv struct {
	gateway     *fakeGateway
	store       *fakeStore
	eligibility *fakeEligibility
	pipeline    *Pipeline
}

func newTestEnv(blacklist config.Blacklist, servers ...config.Server) *testEnv {
	gw := newFakeGateway()
	store := newFakeStore(servers...)
	el := &fakeEligibility{eligible: true}
	return &testEnv{
		gateway:     gw,
		store:       store,
		eligibility: el,
		pipeline: &Pipeline{
			Gateway:     gw,
			Configs:     store,
			Blacklist:   fakeBlacklist(blacklist),
			Eligibility: el,
			Reporter:    NewErrorReporter(gw, NewAdminChannel(adminChannelID)),
		},
	}
}

const (
	guildID        snowflake.ID = 100
	logChannelID   snowflake.ID = 200
	adminChannelID snowflake.ID = 300
)

func user(id snowflake.ID, name string) discord.User {
	return discord.User{ID: id, Username: name}
}

func strPtr(s string) *string {
	return &s
}
