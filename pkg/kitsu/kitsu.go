package kitsu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/disgoorg/json"
	"github.com/google/go-querystring/query"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lmittmann/tint"
)

const (
	DefaultBaseURL = "https://kitsu.io/api/edge"

	cacheSize = 256
	cacheTTL  = 10 * time.Minute
)

var ErrUnexpectedStatus = errors.New("unexpected status code from kitsu")

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *expirable.LRU[string, []Anime]
}

func New(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      expirable.NewLRU[string, []Anime](cacheSize, nil, cacheTTL),
	}
}

type searchParams struct {
	Text  string `url:"filter[text]"`
	Limit int    `url:"page[limit],omitempty"`
}

// Search returns the anime matching the text, best match first.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]Anime, error) {
	params := searchParams{Text: text, Limit: limit}
	values, err := query.Values(params)
	if err != nil {
		return nil, err
	}
	searchURL := c.baseURL + "/anime?" + values.Encode()
	if cached, ok := c.cache.Get(searchURL); ok {
		return cached, nil
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	rq.Header.Set("Accept", "application/vnd.api+json")
	rs, err := c.httpClient.Do(rq)
	if err != nil {
		slog.Error("sushi: error while running a kitsu search", slog.String("query", text), tint.Err(err))
		return nil, err
	}
	defer rs.Body.Close()
	if rs.StatusCode != http.StatusOK {
		slog.Warn("sushi: received an unexpected code from kitsu", slog.Int("status.code", rs.StatusCode), slog.String("query", text))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, rs.StatusCode)
	}
	var response searchResponse
	if err := json.NewDecoder(rs.Body).Decode(&response); err != nil {
		slog.Error("sushi: error while decoding a kitsu response", slog.String("query", text), tint.Err(err))
		return nil, err
	}
	c.cache.Add(searchURL, response.Data)
	return response.Data, nil
}

type searchResponse struct {
	Data []Anime `json:"data"`
}
