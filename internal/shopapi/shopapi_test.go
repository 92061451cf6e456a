package shopapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickhouse-shop/clickhouse/config"
	"github.com/clickhouse-shop/clickhouse/internal/app"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/webserver"
)

func newTestServer(t *testing.T) (*echo.Echo, *app.Application) {
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.FileEnable = false
	cfg.Web.Secret = "test-secret"

	application := app.NewApplication(&cfg)
	require.NoError(t, application.Init(&cfg))
	t.Cleanup(application.Release)

	ws := webserver.New(&cfg)
	Register(ws, application)
	return ws.Echo(), application
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCatalogServesBundledDefaults(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Products []domain.Product `json:"products"`
			Source   string           `json:"source"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Products, 6)
	assert.Equal(t, "bundled_default", resp.Data.Source)
}

func TestCartAddAdjustRemove(t *testing.T) {
	e, application := newTestServer(t)

	first := application.Catalog().Products()[0]
	rec := doJSON(e, http.MethodPost, "/api/cart/items",
		fmt.Sprintf(`{"productId":%d}`, first.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Items    []domain.CartItem `json:"items"`
			Total    float64           `json:"total"`
			Count    int               `json:"count"`
			ViewOpen bool              `json:"viewOpen"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 1, resp.Data.Count)
	assert.Equal(t, first.Price, resp.Data.Total)
	// Adding to the cart opens the cart panel.
	assert.True(t, resp.Data.ViewOpen)

	itemID := resp.Data.Items[0].ID
	rec = doJSON(e, http.MethodPut, "/api/cart/items/"+itemID, `{"delta":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.Count)

	rec = doJSON(e, http.MethodDelete, "/api/cart/items/"+itemID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}

func TestCartAddUnknownProduct(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/cart/items", `{"productId":999999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutValidatesForm(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/checkout",
		`{"name":"Jan","email":"","address":"ul. Testowa 1","card":"4242"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutSubmitAndConflict(t *testing.T) {
	e, application := newTestServer(t)

	form := `{"name":"Jan Kowalski","email":"jan@example.com","address":"ul. Testowa 1","card":"4242424242424242"}`
	rec := doJSON(e, http.MethodPost, "/api/checkout", form)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Stage string `json:"stage"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "submitting", resp.Data.Stage)

	// A second submit while the first is in flight is rejected.
	rec = doJSON(e, http.MethodPost, "/api/checkout", form)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "collecting", resp.Data.Stage)
	assert.Equal(t, 0, application.Cart().ItemCount())
}

func TestNotificationsListAndDismiss(t *testing.T) {
	e, application := newTestServer(t)

	n := application.Notify().Push("Dodano Mysz!", domain.NotifySuccess)

	rec := doJSON(e, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.Notification `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, n.ID, resp.Data[0].ID)

	rec = doJSON(e, http.MethodDelete, "/api/notifications/"+n.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, application.Notify().List())
}

func TestContentEndpointServesDefaults(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/content", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.PageContent `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.HeroTitle)
}

func TestSessionEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ID     string `json:"id"`
			Remote bool   `json:"remote"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.False(t, resp.Data.Remote)
}
