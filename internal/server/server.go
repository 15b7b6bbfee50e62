package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"wedding-rsvp/internal/handler"
	"wedding-rsvp/internal/models"
)

// Submitter processes one RSVP form
type Submitter interface {
	Submit(ctx context.Context, form models.Form) handler.Result
}

type server struct {
	submitter Submitter
	log       zerolog.Logger
}

// New builds the HTTP server for the invitation page
func New(submitter Submitter, allowOrigins []string, logger zerolog.Logger) *echo.Echo {
	s := &server{
		submitter: submitter,
		log:       logger.With().Str("component", "HTTP").Logger(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request")
			return nil
		},
	}))

	e.GET("/healthz", s.health)
	e.POST("/rsvp", s.postRSVP)

	return e
}

func (s *server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) postRSVP(c echo.Context) error {
	var form models.Form
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, handler.Response{Error: "invalid request body"})
	}

	status, resp := s.submitter.Submit(c.Request().Context(), form).Response()
	return c.JSON(status, resp)
}
