package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/nicklaw5/helix/v2"
)

const colorTwitch = 0x9146FF

// Client looks up live streams through the Helix API with an app access token.
type Client struct {
	mu    sync.Mutex
	helix *helix.Client
}

func New(clientID string, clientSecret string, httpClient *http.Client) (*Client, error) {
	client, err := helix.NewClient(&helix.Options{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("helix: NewClient: %w", err)
	}
	c := &Client{helix: client}
	if err := c.refreshToken(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) refreshToken() error {
	resp, err := c.helix.RequestAppAccessToken(nil)
	if err != nil {
		return fmt.Errorf("helix: RequestAppAccessToken: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("helix: RequestAppAccessToken failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	c.helix.SetAppAccessToken(resp.Data.AccessToken)
	return nil
}

// StreamEmbed describes the live stream behind a twitch.tv URL. It returns nil
// when the channel is offline.
func (c *Client) StreamEmbed(_ context.Context, streamURL string) (*discord.Embed, error) {
	login := LoginFromURL(streamURL)
	if login == "" {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	resp, err := c.helix.GetStreams(&helix.StreamsParams{UserLogins: []string{login}})
	if err == nil && resp.StatusCode == http.StatusUnauthorized {
		if err := c.refreshToken(); err != nil {
			return nil, err
		}
		resp, err = c.helix.GetStreams(&helix.StreamsParams{UserLogins: []string{login}})
	}
	if err != nil {
		return nil, fmt.Errorf("helix: GetStreams: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helix: GetStreams failed (%d: %s) %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Streams) == 0 {
		return nil, nil
	}
	embed := NewStreamEmbed(resp.Data.Streams[0], streamURL)
	return &embed, nil
}

func NewStreamEmbed(stream helix.Stream, streamURL string) discord.Embed {
	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetAuthor(stream.UserName, streamURL, "")
	embedBuilder.SetTitle(stream.Title)
	embedBuilder.SetURL(streamURL)
	embedBuilder.SetColor(colorTwitch)
	if stream.GameName != "" {
		embedBuilder.AddField("Game", stream.GameName, true)
	}
	embedBuilder.AddField("Viewers", fmt.Sprint(stream.ViewerCount), true)
	if stream.ThumbnailURL != "" {
		embedBuilder.SetImage(strings.NewReplacer("{width}", "1280", "{height}", "720").Replace(stream.ThumbnailURL))
	}
	return embedBuilder.Build()
}

// LoginFromURL extracts the channel name from a twitch.tv URL.
func LoginFromURL(streamURL string) string {
	u, err := url.Parse(streamURL)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "twitch.tv" && host != "m.twitch.tv" {
		return ""
	}
	login, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	return strings.ToLower(login)
}
