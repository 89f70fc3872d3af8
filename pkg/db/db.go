package db

import (
	"context"
	_ "embed"
	"fmt"
	"sushi-bot/pkg/config"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

const (
	insertServerQuery = "INSERT INTO servers (guild_id) VALUES ($1) ON CONFLICT(guild_id) DO NOTHING;"
	selectServerQuery = "SELECT guild_id, log_channel_id, go_live_channel_id, go_live_message, shoutout_channel_id, shoutout_role_id, shoutout_message FROM servers WHERE guild_id = $1;"
	upsertServerQuery = "INSERT INTO servers (guild_id, log_channel_id, go_live_channel_id, go_live_message, shoutout_channel_id, shoutout_role_id, shoutout_message) VALUES ($1, $2, $3, $4, $5, $6, $7) " +
		"ON CONFLICT(guild_id) DO UPDATE SET log_channel_id=excluded.log_channel_id, go_live_channel_id=excluded.go_live_channel_id, go_live_message=excluded.go_live_message, " +
		"shoutout_channel_id=excluded.shoutout_channel_id, shoutout_role_id=excluded.shoutout_role_id, shoutout_message=excluded.shoutout_message;"
	deleteServerQuery = "DELETE FROM servers WHERE guild_id = $1;"

	disableLogsQuery     = "UPDATE servers SET log_channel_id = NULL WHERE guild_id = $1 AND log_channel_id = $2;"
	disableGoLiveQuery   = "UPDATE servers SET go_live_channel_id = NULL, go_live_message = NULL WHERE guild_id = $1 AND go_live_channel_id = $2;"
	disableShoutoutQuery = "UPDATE servers SET shoutout_channel_id = NULL, shoutout_role_id = NULL, shoutout_message = NULL WHERE guild_id = $1 AND shoutout_channel_id = $2;"

	selectBlacklistQuery = "SELECT user_id, reason FROM blacklist ORDER BY user_id;"
	upsertBlacklistQuery = "INSERT INTO blacklist (user_id, reason) VALUES ($1, $2) ON CONFLICT(user_id) DO UPDATE SET reason=excluded.reason;"
	deleteBlacklistQuery = "DELETE FROM blacklist WHERE user_id = $1;"
)

var disableQueries = map[config.Feature]string{
	config.FeatureLogs:     disableLogsQuery,
	config.FeatureGoLive:   disableGoLiveQuery,
	config.FeatureShoutout: disableShoutoutQuery,
}

type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

// Migrate creates the tables if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, schema)
	return err
}

// GetServer returns the configuration of a guild, creating an empty one on first access.
func (db *DB) GetServer(ctx context.Context, guildID snowflake.ID) (config.Server, error) {
	if _, err := db.pool.Exec(ctx, insertServerQuery, int64(guildID)); err != nil {
		return config.Server{}, fmt.Errorf("failed to create server config: %w", err)
	}
	rows, _ := db.pool.Query(ctx, selectServerQuery, int64(guildID))
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[serverRow])
	if err != nil {
		return config.Server{}, fmt.Errorf("failed to read server config: %w", err)
	}
	return row.toConfig(), nil
}

func (db *DB) SaveServer(ctx context.Context, cfg config.Server) error {
	row := newServerRow(cfg)
	_, err := db.pool.Exec(ctx, upsertServerQuery, row.GuildID, row.LogChannelID, row.GoLiveChannelID, row.GoLiveMessage,
		row.ShoutoutChannelID, row.ShoutoutRoleID, row.ShoutoutMessage)
	return err
}

// DisableFeature turns the feature off, but only while it still posts into channelID.
// A setting changed in the meantime is left alone.
func (db *DB) DisableFeature(ctx context.Context, guildID snowflake.ID, feature config.Feature, channelID snowflake.ID) error {
	query, ok := disableQueries[feature]
	if !ok {
		return fmt.Errorf("unknown feature %q", feature)
	}
	_, err := db.pool.Exec(ctx, query, int64(guildID), int64(channelID))
	return err
}

func (db *DB) DeleteServer(ctx context.Context, guildID snowflake.ID) error {
	_, err := db.pool.Exec(ctx, deleteServerQuery, int64(guildID))
	return err
}

func (db *DB) GetBlacklist(ctx context.Context) (config.Blacklist, error) {
	rows, _ := db.pool.Query(ctx, selectBlacklistQuery)
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[blacklistRow])
	if err != nil {
		return nil, err
	}
	bl := make(config.Blacklist, len(entries))
	for _, entry := range entries {
		bl[snowflake.ID(entry.UserID)] = entry.Reason
	}
	return bl, nil
}

func (db *DB) AddBlacklist(ctx context.Context, userID snowflake.ID, reason string) error {
	_, err := db.pool.Exec(ctx, upsertBlacklistQuery, int64(userID), reason)
	return err
}

// RemoveBlacklist reports whether the user was blacklisted.
func (db *DB) RemoveBlacklist(ctx context.Context, userID snowflake.ID) (bool, error) {
	tag, err := db.pool.Exec(ctx, deleteBlacklistQuery, int64(userID))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
