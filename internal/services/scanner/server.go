package scanner

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type scanResponse struct {
	Success bool `json:"success"`
	Report
}

// NewServer exposes an on-demand scan trigger.
//
//	POST /v1/scan
func NewServer(r *Runner, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e.POST("/v1/scan", func(c echo.Context) error {
		rep, err := r.RunOnce(c.Request().Context())
		if err != nil {
			log.Error("on-demand scan failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, scanResponse{Success: true, Report: *rep})
	})

	return e
}
