package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/dmitrijs2005/gophcal/internal/logging"
	"github.com/dmitrijs2005/gophcal/internal/server/auth"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// contextKeyUserID holds the authenticated user id (int) in echo.Context.
const contextKeyUserID = "user_id"

// requireToken accepts "Authorization: Bearer <jwt>" and stores the subject
// under contextKeyUserID.
func requireToken(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextKeyUserID,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + common.AuthScheme + " ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, common.ErrInvalidToken) {
				return c.JSON(http.StatusUnauthorized, MsgInvalidToken)
			}
			return c.JSON(http.StatusUnauthorized, MsgUnauthorized)
		},
	})
}

func currentUserID(c echo.Context) (int, bool) {
	id, ok := c.Get(contextKeyUserID).(int)
	return id, ok
}

// rateLimiter limits requests per client IP. It returns nil when limit <= 0.
func rateLimiter(o Options) echo.MiddlewareFunc {
	if o.RateLimit <= 0 {
		return nil
	}

	deny := func(c echo.Context) error {
		return c.JSON(http.StatusTooManyRequests, MsgTooManyRequests)
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(o.RateLimit),
				Burst:     o.RateBurst,
				ExpiresIn: o.RateExpiresIn,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return deny(c)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return deny(c)
		},
	})
}

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// requestLogger writes one access log line per request.
func requestLogger(l logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			)
			return nil
		},
	})
}
