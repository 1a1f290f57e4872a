// Package server exposes the operational HTTP surface: liveness and a small
// status report. It carries no bot functionality.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StatusSource reports the counters surfaced on /status.
type StatusSource interface {
	OpenCorrelations() int
	ActiveJobs() int64
}

type Server struct {
	echo    *echo.Echo
	logger  *slog.Logger
	addr    string
	source  StatusSource
	started time.Time
}

func New(log *slog.Logger, addr string, source StatusSource) *Server {
	if log == nil {
		log = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		logger:  log.With(slog.String("component", "server")),
		addr:    addr,
		source:  source,
		started: time.Now(),
	}
	e.GET("/ping", s.ping)
	e.HEAD("/health", s.pingHead)
	e.GET("/status", s.status)
	return s
}

// Start serves until Shutdown; it blocks, so run it on its own goroutine.
func (s *Server) Start() error {
	s.logger.Info("listening", slog.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

type statusResponse struct {
	OpenCorrelations int    `json:"open_correlations"`
	ActiveJobs       int64  `json:"active_jobs"`
	Uptime           string `json:"uptime"`
}

func (s *Server) status(c echo.Context) error {
	resp := statusResponse{Uptime: time.Since(s.started).Round(time.Second).String()}
	if s.source != nil {
		resp.OpenCorrelations = s.source.OpenCorrelations()
		resp.ActiveJobs = s.source.ActiveJobs()
	}
	return c.JSON(http.StatusOK, resp)
}
