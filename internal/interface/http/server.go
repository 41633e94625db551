// Package http implements the local HTTP shell of the attendance tracker.
// Every route calls one Tracker operation; calls are serialized because the
// Tracker tables are not safe for concurrent use.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/classroll/attendance-tracker/internal/application/tracker"
	"github.com/classroll/attendance-tracker/pkg/logger"
	"github.com/classroll/attendance-tracker/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "127.0.0.1").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Pinger reports whether a storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies - всё, что нужно серверу снаружи.
type Dependencies struct {
	Tracker *tracker.Tracker
	Clock   timeutil.Clock

	// Logger may be nil; output is then discarded.
	Logger *logger.Logger

	// Storage is checked by /health. Nil skips the check.
	Storage Pinger
}

// Server is the HTTP shell around one Tracker.
type Server struct {
	config  Config
	tracker *tracker.Tracker
	clock   timeutil.Clock
	storage Pinger
	logger  *logger.Logger
	echo    *echo.Echo

	// serializes every call into the tracker
	mu sync.Mutex

	startedAt time.Time
}

// NewServer creates a Server.
func NewServer(config Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		config:    config,
		tracker:   deps.Tracker,
		clock:     deps.Clock,
		storage:   deps.Storage,
		logger:    log.With(logger.Component("http")),
		echo:      echo.New(),
		startedAt: time.Now(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(s.loggingMiddleware)

	s.setupRoutes()
	return s
}

// Handler returns the root handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("", s.serialize)
	api.GET("/students", s.handleListStudents)
	api.POST("/students", s.handleRegisterStudent)
	api.GET("/students/:roll", s.handleGetStudent)
	api.DELETE("/students/:roll", s.handleDeleteStudent)
	api.POST("/students/:roll/attendance", s.handleMarkAttendance)
	api.GET("/students/:roll/attendance", s.handleGetAttendance)
	api.GET("/students/:roll/profile", s.handleGetProfile)
	api.GET("/orphans", s.handleGetOrphans)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// serialize lets one request at a time into the tracker.
func (s *Server) serialize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return next(c)
	}
}

// loggingMiddleware logs every request with its request ID.
func (s *Server) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		log := s.logger.WithRequestID(requestID)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), log)))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		log.Info("http request",
			logger.String("method", c.Request().Method),
			logger.Path(c.Request().URL.Path),
			logger.HTTPStatus(c.Response().Status),
			logger.Latency(time.Since(start)),
		)
		return nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.echo.Start(s.config.Address())
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Uptime returns the time since the server was created.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startedAt)
}
