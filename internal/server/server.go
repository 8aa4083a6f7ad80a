package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pejman93/echopulse/internal/classify"
	"github.com/pejman93/echopulse/internal/combine"
	"github.com/pejman93/echopulse/internal/config"
	apperrors "github.com/pejman93/echopulse/internal/errors"
	"github.com/pejman93/echopulse/internal/platform/correlation"
	"github.com/pejman93/echopulse/internal/speaker"
	"github.com/pejman93/echopulse/internal/websocket"
)

// Pinger is the readiness probe for an optional external dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo       *echo.Echo
	config     *config.Config
	classifier *classify.Classifier
	combiner   *combine.Combiner
	speakers   speaker.Store
	hub        *websocket.Hub

	// redisPing is nil in memory-store mode; readiness then has no
	// external dependency to check.
	redisPing Pinger

	// defaultStrategy applies when a combine request names none.
	defaultStrategy combine.Strategy

	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, classifier *classify.Classifier, combiner *combine.Combiner, speakers speaker.Store, hub *websocket.Hub, redisPing Pinger, clock clockwork.Clock) (*Server, error) {
	defaultStrategy, err := combine.ParseStrategy(cfg.CombinationStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid COMBINATION_STRATEGY: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(correlationMiddleware())
	e.Use(prometheusMiddleware())
	e.Use(apperrors.Middleware())
	e.Use(newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, clock).Middleware())

	srv := &Server{
		echo:       e,
		config:     cfg,
		classifier: classifier,
		combiner:   combiner,
		speakers:   speakers,
		hub:        hub,
		redisPing:  redisPing,

		defaultStrategy: defaultStrategy,
		clock:           clock,
		startTime:       clock.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

var (
	promOnce       sync.Once
	promMiddleware echo.MiddlewareFunc
)

// prometheusMiddleware builds the request metrics middleware exactly once.
// The collectors register with the default registry, so a second server in
// the same process must reuse them.
func prometheusMiddleware() echo.MiddlewareFunc {
	promOnce.Do(func() {
		promMiddleware = echoprometheus.NewMiddleware("echopulse")
	})
	return promMiddleware
}

// correlationMiddleware assigns each request a correlation ID and threads it
// through the request context so every log line can be tied back.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Correlation-ID")
			if id == "" {
				id = correlation.NewID()
			}
			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Correlation-ID", id)
			return next(c)
		}
	}
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
