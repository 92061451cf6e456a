package adminapi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// login checks the static admin credential pair and issues a session token.
// Demo-grade gate: one configured credential, compared verbatim.
func (h *handler) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	cfg := h.app.Config()
	emailOk := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(payload.Email)), []byte(cfg.Admin.Email))
	passOk := subtle.ConstantTimeCompare([]byte(payload.Password), []byte(cfg.Admin.Password))
	if emailOk != 1 || passOk != 1 {
		h.app.Notify().Push("Nieprawidłowy klucz.", domain.NotifyError)
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}

	token, err := h.ws.IssueAdminToken(cfg.Admin.Email)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	h.app.SetAdminActive(true)
	h.app.Notify().Push("Zalogowano.", domain.NotifySuccess)

	return ok(c, map[string]interface{}{
		"token": token,
		"email": cfg.Admin.Email,
	})
}

// logout drops the admin flag. The token itself stays valid until expiry;
// the panel discards it client side.
func (h *handler) logout(c echo.Context) error {
	h.app.SetAdminActive(false)
	return ok(c, nil)
}
