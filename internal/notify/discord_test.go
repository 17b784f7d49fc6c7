package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/config"
)

func newTestWebhook(t *testing.T, url string) *Webhook {
	t.Helper()
	w, err := NewWebhook(config.DiscordConfig{WebhookURL: url})
	require.NoError(t, err)
	return w
}

func TestSend(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := newTestWebhook(t, srv.URL)
	require.NoError(t, hook.Send(context.Background(), "**Total Applications today:** 2"))
	assert.Equal(t, "**Total Applications today:** 2", received["content"])
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Cannot send an empty message"}`))
	}))
	defer srv.Close()

	hook := newTestWebhook(t, srv.URL)
	err := hook.Send(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "empty message")
}

func TestNewWebhook_MissingURL(t *testing.T) {
	_, err := NewWebhook(config.DiscordConfig{})
	assert.Error(t, err)
}
