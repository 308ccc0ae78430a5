package dispatcher

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/chamasoft/notify-engine/internal/domain/notification"
)

type dispatchResponse struct {
	Success      bool                   `json:"success"`
	ChannelsSent []notification.Channel `json:"channelsSent"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer exposes the dispatch operation over HTTP.
//
//	POST /v1/notifications/dispatch
func NewServer(d *Dispatcher, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	e.POST("/v1/notifications/dispatch", func(c echo.Context) error {
		var ev notification.Event
		if err := c.Bind(&ev); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}
		sent, err := d.Dispatch(c.Request().Context(), &ev)
		switch {
		case errors.Is(err, notification.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, ErrRecipientNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case err != nil:
			log.Error("dispatch failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		if sent == nil {
			sent = []notification.Channel{}
		}
		return c.JSON(http.StatusOK, dispatchResponse{Success: true, ChannelsSent: sent})
	})

	return e
}
