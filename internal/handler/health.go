package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/pbi-relay/internal/middleware"
	"github.com/deppfellow/pbi-relay/internal/server"
)

// HealthHandler exposes a status endpoint for load balancers and uptime
// monitors. The relay has no stateful dependencies, so health means
// "able to relay": the credential is present.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns 200 when the relay can create work items and 503
// otherwise. The Azure DevOps endpoint is reported but not called.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{
		"devops": map[string]interface{}{
			"endpoint": h.server.DevOps.Endpoint(),
		},
	}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if h.server.DevOps.HasToken() {
		checks["credential"] = map[string]interface{}{"status": "healthy"}
	} else {
		checks["credential"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  "personal access token is not configured",
		}
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		if app := h.server.LoggerService.GetApplication(); app != nil {
			app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type": "credential",
				"operation":  "health_check",
				"error_type": "credential_missing",
			})
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
