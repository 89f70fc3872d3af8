package pkg

import (
	"sushi-bot/pkg/db"
	"sushi-bot/pkg/events"
	"sushi-bot/pkg/kitsu"
)

type Bot struct {
	DB       *db.DB
	Kitsu    *kitsu.Client
	Pipeline *events.Pipeline
	Admin    events.AdminChannel
}
