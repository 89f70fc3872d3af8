package handlers

import (
	"fmt"
	"strings"
	"sushi-bot/pkg/kitsu"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const (
	colorOrange  = 0xE67E22
	kitsuLogoURL = "https://avatars.slack-edge.com/2017-07-16/213464927747_f1d4f9fb141ef6666442_512.png"
	searchLimit  = 10
	fieldLimit   = 1024
	noResults    = "No results found"
	notYetRated  = "Not Yet Rated"
	unknownValue = "Unknown"
)

func (h *Handler) HandleAnimeGet(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	return h.animeSearch(event, data.String("query"), 1, AnimeGetEmbed)
}

func (h *Handler) HandleAnimeSearch(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	return h.animeSearch(event, data.String("query"), searchLimit, AnimeSearchEmbed)
}

func (h *Handler) animeSearch(event *handler.CommandEvent, query string, limit int, embedFunc func(string, []kitsu.Anime) discord.Embed) error {
	if err := event.DeferCreateMessage(false); err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	results, err := h.Bot.Kitsu.Search(ctx, query, limit)
	if err != nil {
		_, err = event.CreateFollowupMessage(discord.NewMessageCreate().WithContent("Kitsu failed to respond, try again later."))
		return err
	}
	_, err = event.CreateFollowupMessage(discord.NewMessageCreate().WithEmbeds(embedFunc(query, results)))
	return err
}

// AnimeGetEmbed describes the best match.
func AnimeGetEmbed(query string, results []kitsu.Anime) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle(fmt.Sprintf("Anime Get '%s'", query))
	embedBuilder.SetColor(colorOrange)
	embedBuilder.SetThumbnail(kitsuLogoURL)
	if len(results) == 0 {
		embedBuilder.SetDescription(noResults)
		return embedBuilder.Build()
	}

	anime := results[0]
	attrs := anime.Attributes
	embedBuilder.SetDescription(anime.Title())
	embedBuilder.SetURL(anime.URL())
	embedBuilder.AddField("Status", orUnknown(attrs.Status), false)
	episodes := unknownValue
	if attrs.EpisodeCount != nil {
		episodes = fmt.Sprint(*attrs.EpisodeCount)
	}
	embedBuilder.AddField("Episodes", episodes, true)
	embedBuilder.AddField("Type", orUnknown(attrs.ShowType), true)
	embedBuilder.AddField("Rating", orUnknown(deref(attrs.AverageRating)), true)
	embedBuilder.AddField("Age Rating", ageRating(attrs), true)
	embedBuilder.AddField("Start", orUnknown(deref(attrs.StartDate)), true)
	end := deref(attrs.EndDate)
	if end == "" {
		end = "ongoing"
	}
	embedBuilder.AddField("End", end, true)
	trailer := "No trailer available"
	if url := anime.TrailerURL(); url != "" {
		trailer = fmt.Sprintf("[Trailer](%s)", url)
	}
	embedBuilder.AddField("Trailer", trailer, false)
	if poster := anime.Poster(); poster != "" {
		embedBuilder.SetImage(poster)
	}
	return embedBuilder.Build()
}

// AnimeSearchEmbed lists the titles of every result.
func AnimeSearchEmbed(query string, results []kitsu.Anime) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetTitle("Kitsu Search: " + query)
	embedBuilder.SetColor(colorOrange)
	embedBuilder.SetThumbnail(kitsuLogoURL)
	if len(results) == 0 {
		embedBuilder.SetDescription(noResults)
		return embedBuilder.Build()
	}
	var titles strings.Builder
	for _, anime := range results {
		line := fmt.Sprintf("[%s](%s)\n", anime.Title(), anime.URL())
		if titles.Len()+len(line) > fieldLimit {
			break
		}
		titles.WriteString(line)
	}
	embedBuilder.SetDescription("Here are the search results")
	embedBuilder.AddField("Anime", strings.TrimSuffix(titles.String(), "\n"), false)
	return embedBuilder.Build()
}

func ageRating(attrs kitsu.Attributes) string {
	if rating := deref(attrs.AgeRating); rating != "" {
		return rating
	}
	if guide := deref(attrs.AgeRatingGuide); guide != "" {
		return guide
	}
	return notYetRated
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
