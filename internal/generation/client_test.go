package generation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dossier/internal/profile/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 5*time.Second)
}

func TestComplete_ReturnsText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"a short bio"}`))
	})

	text, err := client.Complete(context.Background(), "write a bio", 512, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "a short bio", text)
}

func TestComplete_RateLimitIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), "write a bio", 512, 0.7)
	var genErr *ports.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, ports.GenerationRateLimited, genErr.Code)
	assert.True(t, genErr.Retryable())
}

func TestComplete_ServerErrorFailsFast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), "write a bio", 512, 0.7)
	var genErr *ports.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, ports.GenerationFailed, genErr.Code)
	assert.False(t, genErr.Retryable())
}

func TestComplete_UpstreamTimeoutIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := client.Complete(context.Background(), "write a bio", 512, 0.7)
	var genErr *ports.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, ports.GenerationTimeout, genErr.Code)
	assert.True(t, genErr.Retryable())
}

func TestDisabled_FailsNonRetryably(t *testing.T) {
	_, err := Disabled{}.Complete(context.Background(), "write a bio", 512, 0.7)
	var genErr *ports.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.False(t, genErr.Retryable())
}
