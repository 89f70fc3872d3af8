package events

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/getsentry/sentry-go"
)

// PresenceCache is the part of the disgo cache holding the last known presences.
type PresenceCache interface {
	Presence(guildID snowflake.ID, userID snowflake.ID) (discord.Presence, bool)
}

// Listener routes gateway events into the pipeline. Every event is handled in its own
// goroutine so slow handlers, like a blacklist backfill, never hold up the gateway.
// Handler errors and panics end up in the pipeline's error reporter.
type Listener struct {
	events.ListenerAdapter

	ctx      context.Context
	pipeline *Pipeline
	wg       sync.WaitGroup
}

func NewListener(ctx context.Context, p *Pipeline) *Listener {
	l := &Listener{ctx: ctx, pipeline: p}
	l.ListenerAdapter = events.ListenerAdapter{
		OnGuildMemberJoin: func(e *events.GuildMemberJoin) {
			l.handle("member_join", func(ctx context.Context) error {
				return p.OnMemberJoin(ctx, e.GuildID, e.Member)
			})
		},
		OnGuildMemberLeave: func(e *events.GuildMemberLeave) {
			l.handle("member_leave", func(ctx context.Context) error {
				return p.OnMemberLeave(ctx, e.GuildID, e.User)
			})
		},
		OnGuildBan: func(e *events.GuildBan) {
			l.handle("member_ban", func(ctx context.Context) error {
				return p.OnMemberBan(ctx, e.GuildID, e.User)
			})
		},
		OnGuildUnban: func(e *events.GuildUnban) {
			l.handle("member_unban", func(ctx context.Context) error {
				return p.OnMemberUnban(ctx, e.GuildID, e.User)
			})
		},
		OnGuildMemberUpdate: func(e *events.GuildMemberUpdate) {
			l.onMemberUpdate(e.GuildID, e.OldMember, e.Member)
		},
		OnGuildMessageUpdate: func(e *events.GuildMessageUpdate) {
			l.handle("message_edit", func(ctx context.Context) error {
				return p.OnMessageEdit(ctx, e.GuildID, e.OldMessage, e.Message)
			})
		},
		OnGuildMessageDelete: func(e *events.GuildMessageDelete) {
			l.handle("message_delete", func(ctx context.Context) error {
				return p.OnMessageDelete(ctx, e.GuildID, e.Message)
			})
		},
		OnPresenceUpdate: func(e *events.PresenceUpdate) {
			// disgo dispatches before it caches the new presence
			l.onPresenceUpdate(e.Client().Caches, e.Presence)
		},
		OnGuildJoin: func(e *events.GuildJoin) {
			guild := e.Guild.Guild
			l.handle("server_join", func(ctx context.Context) error {
				return p.OnServerJoin(ctx, guild)
			})
		},
		OnGuildLeave: func(e *events.GuildLeave) {
			l.handle("server_leave", func(ctx context.Context) error {
				return p.OnServerLeave(ctx, e.GuildID)
			})
		},
	}
	return l
}

// Wait blocks until every handler started so far has returned.
func (l *Listener) Wait() {
	l.wg.Wait()
}

func (l *Listener) onMemberUpdate(guildID snowflake.ID, before discord.Member, after discord.Member) {
	l.handle("member_update", func(ctx context.Context) error {
		return l.pipeline.OnMemberUpdate(ctx, guildID, before, after)
	})
}

// onPresenceUpdate reads the previous presence before handing off. The cache is
// overwritten as soon as the listeners return.
func (l *Listener) onPresenceUpdate(cache PresenceCache, after discord.Presence) {
	var before *discord.Presence
	if old, ok := cache.Presence(after.GuildID, after.PresenceUser.ID); ok {
		before = &old
	}
	l.handle("presence_update", func(ctx context.Context) error {
		return l.pipeline.OnPresenceUpdate(ctx, before, &after)
	})
}

func (l *Listener) handle(kind string, fn func(ctx context.Context) error) {
	eventsReceived.WithLabelValues(kind).Inc()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				eventErrors.WithLabelValues(kind).Inc()
				sentry.CurrentHub().Recover(r)
				l.pipeline.OnError(l.ctx, fmt.Errorf("panic while handling %s: %v", kind, r), string(debug.Stack()))
			}
		}()
		if err := fn(l.ctx); err != nil {
			eventErrors.WithLabelValues(kind).Inc()
			l.pipeline.OnError(l.ctx, err, "while handling "+kind)
		}
	}()
}
