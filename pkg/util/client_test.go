package util

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	rs, err := NewTwitchClient().Get(srv.URL)
	require.NoError(t, err)
	rs.Body.Close()
	assert.Equal(t, userAgent, got)
}

func TestClientDoesNotRetryTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	rs, err := NewKitsuClient().Get(srv.URL)
	require.NoError(t, err)
	rs.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, rs.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}
