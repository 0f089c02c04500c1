package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwsmith1983/causeway/pkg/types"
)

func TestWebhookPostsJSON(t *testing.T) {
	var got types.Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL)
	n := testNotification()
	require.NoError(t, s.Send(context.Background(), n))
	assert.Equal(t, n.RunID, got.RunID)
}

func TestWebhookErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL)
	assert.Error(t, s.Send(context.Background(), testNotification()))
}

func TestWebhookBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL)
	for i := 0; i < 5; i++ {
		assert.Error(t, s.Send(context.Background(), testNotification()))
	}

	// The breaker trips after 3 consecutive failures; later sends fail
	// fast without reaching the endpoint.
	assert.EqualValues(t, 3, hits.Load())
}
