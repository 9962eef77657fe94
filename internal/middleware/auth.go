package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/pbi-relay/internal/errs"
	"github.com/deppfellow/pbi-relay/internal/server"
)

const (
	// FunctionKeyHeader carries the shared function key.
	FunctionKeyHeader = "x-functions-key"

	// FunctionKeyQueryParam is accepted when the header is absent.
	FunctionKeyQueryParam = "code"
)

// AuthMiddleware enforces the shared function key configured in
// server.function_key.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireFunctionKey rejects requests whose key does not match with a 401.
// With no key configured it returns next unchanged.
func (auth *AuthMiddleware) RequireFunctionKey(next echo.HandlerFunc) echo.HandlerFunc {
	expected := auth.server.Config.Server.FunctionKey
	if expected == "" {
		return next
	}

	return func(c echo.Context) error {
		start := time.Now()

		provided := c.Request().Header.Get(FunctionKeyHeader)
		if provided == "" {
			provided = c.QueryParam(FunctionKeyQueryParam)
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			GetLogger(c).Warn().
				Str("function", "RequireFunctionKey").
				Bool("key_present", provided != "").
				Dur("duration", time.Since(start)).
				Msg("rejected request with invalid function key")

			return errs.NewUnauthorizedError("Unauthorized")
		}

		return next(c)
	}
}
