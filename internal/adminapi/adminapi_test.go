package adminapi

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
	"github.com/clickhouse-shop/clickhouse/internal/webserver"
)

func testConfig(t *testing.T) *config.AppConfig {
	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.FileEnable = false
	cfg.Web.Secret = "test-secret"
	return &cfg
}

func newTestServer(t *testing.T) (*echo.Echo, *app.Application) {
	cfg := testConfig(t)
	application := app.NewApplication(cfg)
	require.NoError(t, application.Init(cfg))
	t.Cleanup(application.Release)

	ws := webserver.New(cfg)
	Register(ws, application)
	return ws.Echo(), application
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, e *echo.Echo) string {
	rec := doJSON(e, http.MethodPost, "/api/admin/login", "",
		`{"email":"admin@demo.com","password":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e, application := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/admin/login", "",
		`{"email":"admin@demo.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, application.AdminActive())

	rec = doJSON(e, http.MethodPost, "/api/admin/login", "",
		`{"email":"admin@demo.com","password":"admin"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, application.AdminActive())
}

func TestProductRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/admin/products", "", "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestProductCrud(t *testing.T) {
	e, application := newTestServer(t)
	token := adminToken(t, e)

	rec := doJSON(e, http.MethodPost, "/api/admin/products", token,
		`{"name":"Mysz Proteus","price":299.99,"category":"Myszki","icon":"🖱️"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.Data.ID)
	assert.Equal(t, "Mysz Proteus", created.Data.Name)

	id := created.Data.ID
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/admin/products/%d", id), token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPut, fmt.Sprintf("/api/admin/products/%d", id), token,
		`{"name":"Mysz Proteus Core","price":249.99}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, found := application.Catalog().Find(id)
	require.True(t, found)
	assert.Equal(t, "Mysz Proteus Core", updated.Name)
	assert.Equal(t, 249.99, updated.Price)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", id), token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/admin/products/%d", id), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductCreateRejectsMissingName(t *testing.T) {
	e, _ := newTestServer(t)
	token := adminToken(t, e)

	rec := doJSON(e, http.MethodPost, "/api/admin/products", token, `{"price":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductListPaginationAndSort(t *testing.T) {
	e, _ := newTestServer(t)
	token := adminToken(t, e)

	rec := doJSON(e, http.MethodGet, "/api/admin/products?sort=price&order=DESC&perPage=3", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Price float64 `json:"price"`
		} `json:"data"`
		Total    int64 `json:"total"`
		PageSize int   `json:"pageSize"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.PageSize)
	assert.Len(t, resp.Data, 3)
	// Bundled catalog has six products, total counts all of them.
	assert.Equal(t, int64(6), resp.Total)
	for i := 1; i < len(resp.Data); i++ {
		assert.GreaterOrEqual(t, resp.Data[i-1].Price, resp.Data[i].Price)
	}
}

func TestContentSaveRoundTrip(t *testing.T) {
	e, application := newTestServer(t)
	token := adminToken(t, e)

	rec := doJSON(e, http.MethodGet, "/api/admin/content", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	current := application.Content().Content()
	current.HeroTitle = "NOWA ERA GAMINGU"
	body, err := jsoniter.MarshalToString(current)
	require.NoError(t, err)

	rec = doJSON(e, http.MethodPut, "/api/admin/content", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NOWA ERA GAMINGU", application.Content().Content().HeroTitle)
}

func TestAssistFailsWithoutApiKey(t *testing.T) {
	e, _ := newTestServer(t)
	token := adminToken(t, e)

	rec := doJSON(e, http.MethodPost, "/api/admin/assist", token,
		`{"prompt":"klawiatura mechaniczna rgb"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
