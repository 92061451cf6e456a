package adminapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/app"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/webserver"
)

type handler struct {
	app app.AppContext
	ws  *webserver.WebServer
}

// Register wires the admin surface: login plus JWT-gated product, content,
// assist and metrics endpoints.
func Register(ws *webserver.WebServer, appCtx app.AppContext) {
	h := &handler{app: appCtx, ws: ws}

	// Login sits outside the JWT gate.
	ws.PubPOST("/admin/login", h.login)
	ws.ApiPOST("/logout", h.logout)

	ws.ApiGET("/products", h.listProducts)
	ws.ApiGET("/products/:id", h.getProduct)
	ws.ApiPOST("/products", h.createProduct)
	ws.ApiPUT("/products/:id", h.updateProduct)
	ws.ApiDELETE("/products/:id", h.deleteProduct)

	ws.ApiGET("/content", h.getContent)
	ws.ApiPUT("/content", h.saveContent)

	ws.ApiPOST("/assist", h.generateProduct)
	ws.ApiGET("/metrics/:name", h.metricRange)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":   code,
		"msg":    msg,
		"detail": detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     0,
		"data":     rows,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// oprName extracts the operator identity from the JWT.
func oprName(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return "unknown"
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "unknown"
	}
	if usr, ok := claims["usr"].(string); ok {
		return usr
	}
	return "unknown"
}

// audit appends an operator log entry, best-effort.
func (h *handler) audit(c echo.Context, action, desc string) {
	entry := domain.AdminAuditLog{
		OprName:   oprName(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := h.app.Remote().AppendAuditLog(ctx, entry); err != nil {
			zap.S().Debugf("audit append failed: %s", err)
		}
	}()
}
