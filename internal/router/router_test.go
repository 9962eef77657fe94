package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/pbi-relay/internal/config"
	"github.com/deppfellow/pbi-relay/internal/handler"
	"github.com/deppfellow/pbi-relay/internal/middleware"
	"github.com/deppfellow/pbi-relay/internal/router"
	"github.com/deppfellow/pbi-relay/internal/server"
	"github.com/deppfellow/pbi-relay/internal/service"
)

const payload = `{"Title":"Fix bug","State":"New","Description":"desc","Priority":"alta","Effort":5}`

func newTestRouter(t *testing.T, upstreamStatus int, configure func(*config.Config)) *echo.Echo {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(upstreamStatus)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.DevOps.BaseURL = upstream.URL
	cfg.DevOps.PAT = "pat"
	if configure != nil {
		configure(cfg)
	}

	logger := zerolog.Nop()
	s := server.New(cfg, &logger, nil)
	h := handler.NewHandlers(s, service.NewServices(s))

	return router.NewRouter(s, h)
}

func post(e *echo.Echo, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreatePBIRoute(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, nil)

	for _, target := range []string{"/api/CreatePBI", "/"} {
		rec := post(e, target, payload)

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, handler.MessageCreated, rec.Body.String(), target)
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain), target)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader), target)
	}
}

func TestCreatePBIRouteUpstreamFailureHasNoBody(t *testing.T) {
	e := newTestRouter(t, http.StatusForbidden, nil)

	rec := post(e, "/api/CreatePBI", payload)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCreatePBIRouteValidationIsPlainText(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, nil)

	rec := post(e, "/api/CreatePBI", `{"Title":"t","Description":"d","Priority":"urgente"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handler.MessageInvalidPriority, rec.Body.String())
}

func TestCreatePBIRouteRequiresFunctionKey(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, func(cfg *config.Config) {
		cfg.Server.FunctionKey = "k3y"
	})

	rec := post(e, "/api/CreatePBI", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(e, "/api/CreatePBI?code=k3y", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePBIRouteRejectsOtherMethods(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/CreatePBI", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatusRoute(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusRouteWithoutCredential(t *testing.T) {
	for _, pat := range []string{"", "   "} {
		e := newTestRouter(t, http.StatusOK, func(cfg *config.Config) {
			cfg.DevOps.PAT = pat
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "pat %q", pat)
		assert.Contains(t, rec.Body.String(), "unhealthy")
	}
}

func TestOpenAPIRoute(t *testing.T) {
	e := newTestRouter(t, http.StatusOK, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "/api/CreatePBI")
}
