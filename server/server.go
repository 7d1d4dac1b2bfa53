// Package server wires the HTTP surface: the timesheet webhooks, health and metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrygo/sitevoice/internal/profile"
	"github.com/hrygo/sitevoice/plugin/ai/sitematch"
	"github.com/hrygo/sitevoice/server/internal/observability"
	"github.com/hrygo/sitevoice/server/middleware"
	"github.com/hrygo/sitevoice/server/router/webhook"
	"github.com/hrygo/sitevoice/server/runner/sessioncleanup"
	"github.com/hrygo/sitevoice/server/service/timesheet"
	"github.com/hrygo/sitevoice/store"
)

// Server is the sitevoice HTTP server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	service    timesheet.Service
	cleanup    *sessioncleanup.Runner
	registry   *prometheus.Registry
}

// NewServer creates a server with all routes registered.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Profile:  profile,
		Store:    store,
		registry: prometheus.NewRegistry(),
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(echomiddleware.RequestID())
	echoServer.Use(requestLogger())
	s.echoServer = echoServer

	var matcher sitematch.Matcher
	if profile.IsMatcherEnabled() {
		matcher = sitematch.NewOpenAIMatcher(sitematch.Config{
			APIKey:  profile.MatcherAPIKey,
			BaseURL: profile.MatcherBaseURL,
			Model:   profile.MatcherModel,
			Timeout: profile.MatcherTimeout,
		})
	} else {
		slog.Warn("site matcher disabled, only keyword and exact-name matching is available")
	}

	s.service = timesheet.NewService(store, timesheet.Options{
		BackdateWindowDays: profile.BackdateWindowDays,
		SiteCacheTTL:       profile.SiteCacheTTL,
		MatcherTimeout:     profile.MatcherTimeout,
		Matcher:            matcher,
	})
	s.cleanup = sessioncleanup.NewRunner(store, sessioncleanup.Config{Interval: profile.CleanupInterval})

	echoServer.GET("/healthz", s.handleHealth)
	echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	metrics := observability.NewMetrics(s.registry)
	skills := echoServer.Group(webhook.BasePath,
		middleware.WebhookSecret(profile.WebhookSecret),
		middleware.RateLimit(middleware.NewRateLimiter(0, 0), middleware.CallOrIPKey),
	)
	webhook.NewHandler(s.service, metrics, slog.Default()).Register(skills)

	return s, nil
}

// Echo returns the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}

// Start starts the background runner and serves until the listener closes.
func (s *Server) Start(ctx context.Context) error {
	address := net.JoinHostPort(s.Profile.Addr, fmt.Sprintf("%d", s.Profile.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", address)
	}
	s.echoServer.Listener = listener

	s.cleanup.Start(ctx)

	slog.Info("sitevoice server listening", "address", address, "mode", s.Profile.Mode, "driver", s.Profile.Driver)
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and releases resources.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	slog.Info("server shutting down")
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	s.cleanup.Stop()
	if err := s.service.Close(); err != nil {
		slog.Error("failed to close timesheet service", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
	slog.Info("sitevoice stopped properly")
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.Store.GetDriver().GetDB().PingContext(c.Request().Context()); err != nil {
		slog.Warn("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Version: s.Profile.Version})
	}
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: s.Profile.Version})
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			slog.Info("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return nil
		}
	}
}
