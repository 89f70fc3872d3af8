package handlers

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const colorMagenta = 0xE91E63

type helpTopic struct {
	name        string
	description string
	format      string
	params      [][2]string
}

// animeHelp holds one entry per /anime subcommand, in display order.
var animeHelp = []helpTopic{
	{
		name:        "get",
		description: "A command for getting an anime's information",
		format:      "`/anime get [query]`",
		params:      [][2]string{{"[query]", "Required parameter. The name of the anime you want to search for"}},
	},
	{
		name:        "search",
		description: "A command for searching for anime",
		format:      "`/anime search [query]`",
		params:      [][2]string{{"[query]", "Required parameter. The name of the anime you want to search for"}},
	},
	{
		name:        "help",
		description: "The help command which displays useful command information!",
		format:      "`/anime help [command]`",
		params:      [][2]string{{"[command]", "Optional parameter. The command that you want to know more about"}},
	},
}

func helpChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, len(animeHelp))
	for i, topic := range animeHelp {
		choices[i] = discord.ApplicationCommandOptionChoiceString{Name: topic.name, Value: topic.name}
	}
	return choices
}

func (t helpTopic) embed() discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(strings.ToUpper(t.name[:1]) + t.name[1:])
	embedBuilder.SetDescription(t.description)
	embedBuilder.SetColor(colorMagenta)
	embedBuilder.AddField("Format", t.format, false)
	for _, param := range t.params {
		embedBuilder.AddField(param[0], param[1], false)
	}
	return embedBuilder.Build()
}

// HelpEmbed returns the help of one subcommand, or the overview for an empty or unknown name.
func HelpEmbed(command string) discord.Embed {
	for _, topic := range animeHelp {
		if topic.name == command {
			return topic.embed()
		}
	}
	names := make([]string, len(animeHelp))
	for i, topic := range animeHelp {
		names[i] = "`/anime " + topic.name + "`"
	}
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle("Anime Help")
	embedBuilder.SetDescription("Here are all the anime commands! Use `/anime help <command>` to get help for a specific command")
	embedBuilder.SetColor(colorMagenta)
	embedBuilder.AddField("Commands", strings.Join(names, ", "), false)
	return embedBuilder.Build()
}

func (h *Handler) HandleAnimeHelp(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	command, _ := data.OptString("command")
	embed := HelpEmbed(command)
	var iconURL string
	if guildID := event.GuildID(); guildID != nil {
		if guild, ok := event.Client().Caches.Guild(*guildID); ok {
			iconURL = deref(guild.IconURL())
		}
	}
	embed.Author = &discord.EmbedAuthor{Name: "Help", IconURL: iconURL}
	return event.CreateMessage(discord.NewMessageCreate().WithEmbeds(embed))
}
