package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizsuite/internal/notification/channel"
	"bizsuite/internal/notification/models"
)

func TestSend_PostsToWebhook(t *testing.T) {
	var got webhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/T000/B000/XXXX", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	setting := models.Setting{Channel: models.ChannelSlack, Destination: srv.URL + "/services/T000/B000/XXXX"}
	require.NoError(t, New().Send(context.Background(), setting, "Deal Acme moved"))
	assert.Equal(t, "Deal Acme moved", got.Text)
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token\n"))
	}))
	defer srv.Close()

	err := New().Send(context.Background(), models.Setting{Destination: srv.URL}, "hi")
	assert.ErrorIs(t, err, channel.ErrRejected)
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestSend_InvalidWebhook(t *testing.T) {
	for _, dest := range []string{"", "not a url", "ftp://hooks.slack.test/x", "https://"} {
		err := New().Send(context.Background(), models.Setting{Destination: dest}, "hi")
		assert.ErrorIs(t, err, channel.ErrMisconfigured, dest)
	}
}
