package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

// placeholderImage stands in when the image call fails; metadata alone is
// still worth returning.
const placeholderImage = "https://placehold.co/400x400?text=AI+Error"

type assistPayload struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=500"`
}

type assistResult struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon"`
	Image       string  `json:"image"`
}

// generateProduct drafts product metadata and an image from a free-text
// prompt. The draft is returned to the panel, never saved directly.
func (h *handler) generateProduct(c echo.Context) error {
	var payload assistPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse prompt", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Prompt is required", nil)
	}

	ctx := c.Request().Context()
	meta, err := h.app.Assistant().GenerateProduct(ctx, payload.Prompt)
	if err != nil {
		zap.S().Warnf("assist: metadata generation failed: %s", err)
		h.app.Notify().Push("Błąd generowania AI. Sprawdź klucz API.", domain.NotifyError)
		return fail(c, http.StatusBadGateway, "ASSISTANT_ERROR", "Metadata generation failed", err.Error())
	}

	image, err := h.app.Assistant().GenerateImage(ctx, meta.Name)
	if err != nil {
		zap.S().Warnf("assist: image generation failed: %s", err)
		image = placeholderImage
	}

	return ok(c, assistResult{
		Name:        meta.Name,
		Price:       meta.Price,
		Description: meta.Description,
		Category:    meta.Category,
		Icon:        meta.Icon,
		Image:       image,
	})
}
