package eligibility

import (
	"context"
	"errors"
	"testing"

	"sushi-bot/pkg/events"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeGuildID  snowflake.ID = 1
	roleID       snowflake.ID = 2
	adminChannel snowflake.ID = 3
	ownerID      snowflake.ID = 4
)

type fakeDiscord struct {
	members map[snowflake.ID]discord.Member
	leaves  []snowflake.ID
	sent    []discord.MessageCreate
}

func (d *fakeDiscord) Send(_ context.Context, _ snowflake.ID, message discord.MessageCreate) error {
	d.sent = append(d.sent, message)
	return nil
}

func (d *fakeDiscord) Leave(_ context.Context, guildID snowflake.ID) error {
	d.leaves = append(d.leaves, guildID)
	return nil
}

func (d *fakeDiscord) Member(_ context.Context, _ snowflake.ID, userID snowflake.ID) (discord.Member, error) {
	member, ok := d.members[userID]
	if !ok {
		return discord.Member{}, errors.New("unknown member")
	}
	return member, nil
}

func TestCheckAndLeaveIfIneligible(t *testing.T) {
	guild := discord.Guild{ID: 50, Name: "guild", OwnerID: ownerID}
	tests := []struct {
		name     string
		roleID   snowflake.ID
		members  map[snowflake.ID]discord.Member
		eligible bool
	}{
		{"owner not in home guild", 0, nil, false},
		{"owner in home guild", 0, map[snowflake.ID]discord.Member{ownerID: {}}, true},
		{"owner without role", roleID, map[snowflake.ID]discord.Member{ownerID: {}}, false},
		{"owner with role", roleID, map[snowflake.ID]discord.Member{ownerID: {RoleIDs: []snowflake.ID{roleID}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDiscord{members: tt.members}
			checker := NewChecker(d, homeGuildID, tt.roleID, events.NewAdminChannel(adminChannel))

			eligible, err := checker.CheckAndLeaveIfIneligible(context.Background(), guild)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, eligible)
			if tt.eligible {
				assert.Empty(t, d.leaves)
				assert.Empty(t, d.sent)
			} else {
				assert.Equal(t, []snowflake.ID{guild.ID}, d.leaves)
				require.Len(t, d.sent, 1)
				assert.Contains(t, d.sent[0].Content, "not eligible")
			}
		})
	}
}

func TestWithoutHomeGuildEverythingIsEligible(t *testing.T) {
	d := &fakeDiscord{}
	eligible, err := NewChecker(d, 0, 0, events.AdminChannel{}).CheckAndLeaveIfIneligible(context.Background(), discord.Guild{ID: 9})
	require.NoError(t, err)
	assert.True(t, eligible)
}

func TestHomeGuildIsEligible(t *testing.T) {
	d := &fakeDiscord{}
	checker := NewChecker(d, homeGuildID, roleID, events.AdminChannel{})
	assert.True(t, checker.Eligible(context.Background(), discord.Guild{ID: homeGuildID}))
}
