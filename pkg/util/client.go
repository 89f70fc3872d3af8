package util

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	kitsuTimeout  = 10 * time.Second
	twitchTimeout = 5 * time.Second
	userAgent     = "sushi-bot (+https://github.com/sushi-bot)"
)

// leveledSlog adapts slog to retryablehttp. Intermediate failures are retried,
// so they are logged as warnings.
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func NewKitsuClient() *http.Client {
	return newRetryingClient("kitsu", kitsuTimeout, 3)
}

func NewTwitchClient() *http.Client {
	return newRetryingClient("twitch", twitchTimeout, 1)
}

func newRetryingClient(name string, timeout time.Duration, retries int) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: slog.Default().With(slog.String("http.client", name))})
	retryClient.CheckRetry = retryPolicy
	retryClient.HTTPClient.Transport = &userAgentTripper{tripper: retryClient.HTTPClient.Transport}

	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}

// retryPolicy does not retry 429s; the caller decides what to do about rate limits.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type userAgentTripper struct {
	tripper http.RoundTripper
}

func (t *userAgentTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return t.tripper.RoundTrip(req)
}
