package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickhouse-shop/clickhouse/config"
)

func TestNotConfigured(t *testing.T) {
	c := NewClient(config.AssistantConfig{})

	_, err := c.GenerateProduct(context.Background(), "myszka")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.GenerateImage(context.Background(), "myszka")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerateProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/generate/metadata", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "myszka bezprzewodowa")

		_ = json.NewEncoder(w).Encode(GeneratedProduct{
			Name:        "Myszka Feather 2.4G",
			Price:       299.99,
			Description: "Bezprzewodowa, 59g, sensor optyczny.",
			Category:    "Myszki",
			Icon:        "🖱️",
		})
	}))
	defer srv.Close()

	c := NewClient(config.AssistantConfig{ApiUrl: srv.URL, ApiKey: "test-key"})
	got, err := c.GenerateProduct(context.Background(), "myszka bezprzewodowa")
	require.NoError(t, err)
	assert.Equal(t, "Myszka Feather 2.4G", got.Name)
	assert.InDelta(t, 299.99, got.Price, 1e-9)
}

func TestGenerateProductServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.AssistantConfig{ApiUrl: srv.URL, ApiKey: "test-key"})
	_, err := c.GenerateProduct(context.Background(), "cokolwiek")
	assert.Error(t, err)
}

func TestGenerateProductUnusableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(config.AssistantConfig{ApiUrl: srv.URL, ApiKey: "test-key"})
	_, err := c.GenerateProduct(context.Background(), "cokolwiek")
	assert.Error(t, err)
}

func TestGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/generate/image", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"image": "data:image/png;base64,aGVq",
		})
	}))
	defer srv.Close()

	c := NewClient(config.AssistantConfig{ApiUrl: srv.URL, ApiKey: "test-key"})
	got, err := c.GenerateImage(context.Background(), "klawiatura")
	require.NoError(t, err)
	assert.Contains(t, got, "data:image/png;base64,")
}
