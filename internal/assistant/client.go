// Package assistant calls the generative content collaborator that
// auto-authors product metadata and images for the admin panel. Both calls
// are opaque request/response and may fail independently; a failure yields
// one error and leaves the caller's form state untouched.
package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/clickhouse-shop/clickhouse/config"
)

var ErrNotConfigured = errors.New("assistant api key not configured")

// GeneratedProduct is the structured metadata returned for a free-text
// prompt.
type GeneratedProduct struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
}

type Client struct {
	apiURL  string
	apiKey  string
	timeout time.Duration
}

func NewClient(cfg config.AssistantConfig) *Client {
	return &Client{
		apiURL:  cfg.ApiUrl,
		apiKey:  cfg.ApiKey,
		timeout: 60 * time.Second,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.apiURL != ""
}

// GenerateProduct asks the collaborator for product metadata matching the
// prompt.
func (c *Client) GenerateProduct(ctx context.Context, prompt string) (*GeneratedProduct, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	instruction := fmt.Sprintf(`Create a single gaming product based on this description: %q. `+
		`Return JSON with: name (string), price (number, typical gaming price in PLN), `+
		`description (string, max 100 chars), category (string, e.g. Klawiatury, Myszki), `+
		`icon (string, single emoji). Language: Polish.`, prompt)

	var result GeneratedProduct
	var code int
	err := gout.POST(c.apiURL+"/v1/generate/metadata").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(gout.H{"Authorization": "Bearer " + c.apiKey}).
		SetJSON(gout.H{"prompt": instruction}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "assistant metadata call")
	}
	if code != http.StatusOK {
		return nil, errors.Errorf("assistant metadata call: status %d", code)
	}
	if result.Name == "" {
		return nil, errors.New("assistant metadata call: unusable response")
	}
	return &result, nil
}

// GenerateImage asks the collaborator for a product photo, returned as a
// data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	instruction := fmt.Sprintf("Professional product photography of %s, studio lighting, "+
		"dark background, neon accents, high quality, 4k, centralized composition.", prompt)

	var result struct {
		Image string `json:"image"`
	}
	var code int
	err := gout.POST(c.apiURL+"/v1/generate/image").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(gout.H{"Authorization": "Bearer " + c.apiKey}).
		SetJSON(gout.H{"prompt": instruction, "aspect_ratio": "1:1"}).
		BindJSON(&result).
		Code(&code).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "assistant image call")
	}
	if code != http.StatusOK {
		return "", errors.Errorf("assistant image call: status %d", code)
	}
	if result.Image == "" {
		return "", errors.New("assistant image call: empty payload")
	}
	return result.Image, nil
}
