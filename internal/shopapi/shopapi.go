// Package shopapi exposes the public storefront surface: catalog browsing,
// cart mutation, the checkout flow and the notification feed. No
// authentication; this is the customer-facing side.
package shopapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/clickhouse-shop/clickhouse/internal/app"
	"github.com/clickhouse-shop/clickhouse/internal/cart"
	"github.com/clickhouse-shop/clickhouse/internal/checkout"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type handler struct {
	app app.AppContext
}

// Register wires the public storefront routes.
func Register(ws *webserver.WebServer, appCtx app.AppContext) {
	h := &handler{app: appCtx}

	ws.PubGET("/catalog", h.catalog)
	ws.PubGET("/content", h.content)
	ws.PubGET("/session", h.session)

	ws.PubGET("/cart", h.cartState)
	ws.PubPOST("/cart/items", h.addItem)
	ws.PubPUT("/cart/items/:id", h.adjustItem)
	ws.PubDELETE("/cart/items/:id", h.removeItem)
	ws.PubDELETE("/cart", h.clearCart)
	ws.PubPOST("/cart/view", h.setCartView)

	ws.PubGET("/checkout", h.checkoutState)
	ws.PubPOST("/checkout", h.submitCheckout)
	ws.PubDELETE("/checkout", h.cancelCheckout)

	ws.PubGET("/notifications", h.notifications)
	ws.PubGET("/notifications/stream", h.notificationStream)
	ws.PubDELETE("/notifications/:id", h.dismissNotification)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]interface{}{
		"code": code,
		"msg":  msg,
	})
}

func (h *handler) catalog(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"products": h.app.Catalog().Products(),
		"source":   h.app.Catalog().SourceState().String(),
	})
}

func (h *handler) content(c echo.Context) error {
	return ok(c, h.app.Content().Content())
}

func (h *handler) session(c echo.Context) error {
	s := h.app.Session()
	return ok(c, map[string]interface{}{
		"id":        s.ID,
		"anonymous": s.Anonymous,
		"remote":    h.app.Remote().Enabled(),
	})
}

type cartState struct {
	Items    []domain.CartItem `json:"items"`
	Total    float64           `json:"total"`
	Count    int               `json:"count"`
	ViewOpen bool              `json:"viewOpen"`
}

func (h *handler) snapshotCart() cartState {
	eng := h.app.Cart()
	return cartState{
		Items:    eng.Items(),
		Total:    eng.Total(),
		Count:    eng.ItemCount(),
		ViewOpen: eng.ViewOpen(),
	}
}

func (h *handler) cartState(c echo.Context) error {
	return ok(c, h.snapshotCart())
}

type addItemPayload struct {
	ProductID int64 `json:"productId"`
}

func (h *handler) addItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item")
	}

	if _, err := h.app.Cart().AddItem(payload.ProductID); err != nil {
		if errors.Is(err, cart.ErrProductNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		}
		return fail(c, http.StatusInternalServerError, "CART_ERROR", err.Error())
	}
	return ok(c, h.snapshotCart())
}

type adjustPayload struct {
	Delta int `json:"delta"`
}

func (h *handler) adjustItem(c echo.Context) error {
	var payload adjustPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse adjustment")
	}
	h.app.Cart().AdjustQuantity(c.Param("id"), payload.Delta)
	return ok(c, h.snapshotCart())
}

func (h *handler) removeItem(c echo.Context) error {
	h.app.Cart().RemoveItem(c.Param("id"))
	return ok(c, h.snapshotCart())
}

func (h *handler) clearCart(c echo.Context) error {
	h.app.Cart().Clear()
	return ok(c, h.snapshotCart())
}

type cartViewPayload struct {
	Open bool `json:"open"`
}

func (h *handler) setCartView(c echo.Context) error {
	var payload cartViewPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse view state")
	}
	if payload.Open {
		h.app.Cart().OpenView()
	} else {
		h.app.Cart().CloseView()
	}
	return ok(c, h.snapshotCart())
}

func (h *handler) checkoutState(c echo.Context) error {
	return ok(c, map[string]interface{}{
		"stage": h.app.Checkout().Stage().String(),
	})
}

func (h *handler) submitCheckout(c echo.Context) error {
	var form checkout.Form
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout form")
	}

	if err := h.app.Checkout().Submit(form); err != nil {
		switch {
		case errors.Is(err, checkout.ErrFieldRequired):
			return fail(c, http.StatusBadRequest, "FIELD_REQUIRED", err.Error())
		case errors.Is(err, checkout.ErrInvalidStage):
			return fail(c, http.StatusConflict, "ALREADY_IN_PROGRESS", err.Error())
		default:
			return fail(c, http.StatusInternalServerError, "CHECKOUT_ERROR", err.Error())
		}
	}
	return ok(c, map[string]interface{}{
		"stage": h.app.Checkout().Stage().String(),
	})
}

func (h *handler) cancelCheckout(c echo.Context) error {
	h.app.Checkout().Cancel()
	return ok(c, map[string]interface{}{
		"stage": h.app.Checkout().Stage().String(),
	})
}

func (h *handler) notifications(c echo.Context) error {
	return ok(c, h.app.Notify().List())
}

func (h *handler) dismissNotification(c echo.Context) error {
	h.app.Notify().Dismiss(c.Param("id"))
	return ok(c, nil)
}

// notificationStream pushes every notification to the client as a
// server-sent event until the client disconnects.
func (h *handler) notificationStream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	events := make(chan domain.Notification, 16)
	unsubscribe := h.app.Notify().Subscribe(func(n domain.Notification) {
		select {
		case events <- n:
		default:
		}
	})
	defer unsubscribe()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-events:
			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
