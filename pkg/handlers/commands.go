package handlers

import (
	"context"
	"log/slog"
	"sushi-bot/pkg"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/lmittmann/tint"
)

const requestTimeout = 15 * time.Second

func NewHandler(b *pkg.Bot, c *pkg.Config) *Handler {
	mux := handler.New()
	mux.Error(func(e *handler.InteractionEvent, err error) {
		i := e.Interaction.(discord.ApplicationCommandInteraction)
		slog.Error("sushi: error while handling a command", slog.String("command.name", i.Data.CommandName()), tint.Err(err))
		_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
			WithContentf("There was an error while handling the command: %v", err).
			WithEphemeral(true))
	})
	handlers := &Handler{
		Bot:    b,
		Config: c,
		Router: mux,
	}
	handlers.Route("/anime", func(r handler.Router) {
		r.SlashCommand("/get", handlers.HandleAnimeGet)
		r.SlashCommand("/search", handlers.HandleAnimeSearch)
		r.SlashCommand("/help", handlers.HandleAnimeHelp)
	})
	handlers.Route("/config", func(r handler.Router) {
		r.Command("/show", handlers.HandleConfigShow)
		r.Route("/logs", func(r handler.Router) {
			r.SlashCommand("/set", handlers.HandleLogsSet)
			r.Command("/disable", handlers.HandleLogsDisable)
		})
		r.Route("/golive", func(r handler.Router) {
			r.SlashCommand("/set", handlers.HandleGoLiveSet)
			r.Command("/disable", handlers.HandleGoLiveDisable)
		})
		r.Route("/shoutout", func(r handler.Router) {
			r.SlashCommand("/set", handlers.HandleShoutoutSet)
			r.Command("/disable", handlers.HandleShoutoutDisable)
		})
	})
	handlers.Route("/blacklist", func(r handler.Router) {
		r.SlashCommand("/add", handlers.HandleBlacklistAdd)
		r.SlashCommand("/remove", handlers.HandleBlacklistRemove)
		r.Command("/list", handlers.HandleBlacklistList)
	})
	return handlers
}

type Handler struct {
	Bot    *pkg.Bot
	Config *pkg.Config
	handler.Router
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

var queryOption = discord.ApplicationCommandOptionString{
	Name:        "query",
	Description: "The anime to search for",
	Required:    true,
}

var textChannel = []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews}

// Commands lists every application command the bot registers.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "anime",
		Description: "Look up anime on Kitsu",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "get",
				Description: "Get an anime's information",
				Options:     []discord.ApplicationCommandOption{queryOption},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "search",
				Description: "Search for anime",
				Options:     []discord.ApplicationCommandOption{queryOption},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "help",
				Description: "Need help with anime commands?",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "command",
						Description: "The command to get more information about",
						Choices:     helpChoices(),
					},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "config",
		Description: "Configure the bot for this server",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "show",
				Description: "Show the current configuration",
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "logs",
				Description: "Audit log channel",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "set",
						Description: "Post audit logs to a channel",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionChannel{Name: "channel", Description: "The log channel", Required: true, ChannelTypes: textChannel},
						},
					},
					{Name: "disable", Description: "Stop posting audit logs"},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "golive",
				Description: "Announcements when the server owner goes live on Twitch",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "set",
						Description: "Announce the owner's streams in a channel",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionChannel{Name: "channel", Description: "The announcement channel", Required: true, ChannelTypes: textChannel},
							discord.ApplicationCommandOptionString{Name: "message", Description: "Message template, supports {user} {name} {url} {title} {game}", Required: true},
						},
					},
					{Name: "disable", Description: "Stop go-live announcements"},
				},
			},
			discord.ApplicationCommandOptionSubCommandGroup{
				Name:        "shoutout",
				Description: "Shout-outs when members go live on Twitch",
				Options: []discord.ApplicationCommandOptionSubCommand{
					{
						Name:        "set",
						Description: "Shout out streaming members with a role",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionChannel{Name: "channel", Description: "The shout-out channel", Required: true, ChannelTypes: textChannel},
							discord.ApplicationCommandOptionRole{Name: "role", Description: "Members with this role get shout-outs", Required: true},
							discord.ApplicationCommandOptionString{Name: "message", Description: "Message template, supports {user} {name} {url} {title} {game}", Required: true},
						},
					},
					{Name: "disable", Description: "Stop shout-outs"},
				},
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "blacklist",
		Description: "Manage the global blacklist",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "add",
				Description: "Blacklist a user and ban them everywhere",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{Name: "user", Description: "The user to blacklist", Required: true},
					discord.ApplicationCommandOptionString{Name: "reason", Description: "The ban reason", Required: true},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "remove",
				Description: "Remove a user from the blacklist",
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionUser{Name: "user", Description: "The user to remove", Required: true},
				},
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "list",
				Description: "List blacklisted users",
			},
		},
	},
}
