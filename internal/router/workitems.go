package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/pbi-relay/internal/handler"
	"github.com/deppfellow/pbi-relay/internal/middleware"
)

// registerWorkItemRoutes exposes CreatePBI under the path the function was
// always reachable at and at the root.
func registerWorkItemRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	r.POST("/api/CreatePBI", h.WorkItem.CreatePBIEcho, mw.Auth.RequireFunctionKey)
	r.POST("/", h.WorkItem.CreatePBIEcho, mw.Auth.RequireFunctionKey)
}
