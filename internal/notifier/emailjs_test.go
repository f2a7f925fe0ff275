package notifier

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repodigest/repodigest/internal/config"
)

func testEmailJS(serverURL string) *EmailJSClient {
	return &EmailJSClient{
		cfg:        config.EmailJS{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"},
		endpoint:   serverURL,
		httpClient: &http.Client{},
		logger:     log.New(io.Discard, "", 0),
		now:        func() time.Time { return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) },
	}
}

func TestEmailJSClient_Send(t *testing.T) {
	t.Run("happy path - posts template params", func(t *testing.T) {
		var got sendRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := testEmailJS(server.URL).Send(context.Background(), "dev@example.com", "the summary", "https://github.com/foo/bar")
		require.NoError(t, err)

		assert.Equal(t, "svc", got.ServiceID)
		assert.Equal(t, "tpl", got.TemplateID)
		assert.Equal(t, "pub", got.UserID)
		assert.Equal(t, templateParams{
			ToEmail:  "dev@example.com",
			Summary:  "the summary",
			RepoName: "bar",
			Date:     "6/9/2025",
		}, got.TemplateParams)
	})

	t.Run("non-success status is surfaced verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		err := testEmailJS(server.URL).Send(context.Background(), "dev@example.com", "s", "https://github.com/foo/bar")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403 Forbidden")
	})

	t.Run("unresolvable origin URL falls back to the generic label", func(t *testing.T) {
		var got sendRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := testEmailJS(server.URL).Send(context.Background(), "dev@example.com", "s", "not a url")
		require.NoError(t, err)
		assert.Equal(t, "GitHub Repository", got.TemplateParams.RepoName)
	})

	t.Run("transport fault is fatal", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		err := testEmailJS(server.URL).Send(context.Background(), "dev@example.com", "s", "https://github.com/foo/bar")
		assert.Error(t, err)
	})
}

func TestNewEmailJSClient(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	_, err := NewEmailJSClient(config.EmailJS{ServiceID: "svc"}, logger)
	assert.Error(t, err)

	client, err := NewEmailJSClient(config.EmailJS{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"}, logger)
	require.NoError(t, err)
	assert.Equal(t, defaultEndpoint, client.endpoint)
}
