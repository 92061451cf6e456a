// Package webserver hosts the echo HTTP tier: public storefront routes under
// /api and JWT-gated admin routes under /api/admin.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/config"
)

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	pub  *echo.Group
	api  *echo.Group
}

type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func New(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())

	s := &WebServer{cfg: cfg, root: e}
	s.pub = e.Group("/api")
	s.api = e.Group("/api/admin", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
	}))
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	})
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// PubGET registers a public storefront route.
func (s *WebServer) PubGET(path string, h echo.HandlerFunc)    { s.pub.GET(path, h) }
func (s *WebServer) PubPOST(path string, h echo.HandlerFunc)   { s.pub.POST(path, h) }
func (s *WebServer) PubPUT(path string, h echo.HandlerFunc)    { s.pub.PUT(path, h) }
func (s *WebServer) PubDELETE(path string, h echo.HandlerFunc) { s.pub.DELETE(path, h) }

// ApiGET registers a JWT-gated admin route.
func (s *WebServer) ApiGET(path string, h echo.HandlerFunc)    { s.api.GET(path, h) }
func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc)   { s.api.POST(path, h) }
func (s *WebServer) ApiPUT(path string, h echo.HandlerFunc)    { s.api.PUT(path, h) }
func (s *WebServer) ApiDELETE(path string, h echo.HandlerFunc) { s.api.DELETE(path, h) }

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.root.Shutdown(shutdownCtx)
}
