// Package router builds the Echo instance: it installs the middlewares and
// maps routes to handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/pbi-relay/internal/handler"
	"github.com/deppfellow/pbi-relay/internal/middleware"
	"github.com/deppfellow/pbi-relay/internal/server"
)

// NewRouter returns a configured Echo instance.
//
// Middleware order matters: the New Relic transaction must exist before the
// context enhancer copies trace ids into the request logger, and the request
// id must exist before either.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerWorkItemRoutes(router, h, mw)

	return router
}
