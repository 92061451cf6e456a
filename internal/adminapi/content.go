package adminapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

func (h *handler) getContent(c echo.Context) error {
	return ok(c, h.app.Content().Content())
}

// saveContent replaces the whole content record. Field-level patching is the
// remote store's job; the admin panel always submits the full form.
func (h *handler) saveContent(c echo.Context) error {
	var payload domain.PageContent
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse content", err.Error())
	}

	// The mirror write outlives the request, so it must not inherit its
	// context.
	h.app.Content().Save(context.Background(), payload)
	h.audit(c, "content.save", "updated page content")
	return ok(c, h.app.Content().Content())
}
