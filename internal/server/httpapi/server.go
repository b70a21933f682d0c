// Package httpapi exposes the scheduling API over HTTP using echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Options struct {
	Address            string
	FriendsRequireAuth bool
	RateLimit          float64
	RateBurst          int
	RateExpiresIn      time.Duration
	ShutdownTimeout    time.Duration
}

type Server struct {
	address         string
	shutdownTimeout time.Duration
	echo            *echo.Echo
	logger          logging.Logger
}

func NewServer(o Options, h *Handler, tokens *auth.TokenService, l logging.Logger) *Server {
	logger := l.With("module", "http_server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger(logger))

	authed := requireToken(tokens)

	var public []echo.MiddlewareFunc
	if rl := rateLimiter(o); rl != nil {
		public = append(public, rl)
	}

	e.POST("/register", h.Register, public...)
	e.POST("/login", h.Login, public...)

	e.POST("/schedules", h.AddSchedule, authed)
	e.GET("/schedules", h.ListSchedules, authed)
	e.DELETE("/schedules/:id", h.DeleteSchedule, authed)
	e.GET("/schedules.ics", h.ExportCalendar, authed)

	if o.FriendsRequireAuth {
		e.GET("/friends_schedules/:friend_id", h.FriendSchedules, authed)
	} else {
		e.GET("/friends_schedules/:friend_id", h.FriendSchedules)
	}

	e.GET("/health", h.Health)

	return &Server{
		address:         o.Address,
		shutdownTimeout: o.ShutdownTimeout,
		echo:            e,
		logger:          logger,
	}
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.echo.Shutdown(shutdownCtx)
}

// Addr returns the bound listener address once Run has started listening.
func (s *Server) Addr() string {
	if a := s.echo.ListenerAddr(); a != nil {
		return a.String()
	}
	return ""
}
