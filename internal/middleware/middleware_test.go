package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/pbi-relay/internal/config"
	"github.com/deppfellow/pbi-relay/internal/errs"
	"github.com/deppfellow/pbi-relay/internal/server"
)

func newTestServer(functionKey string) *server.Server {
	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.Server.FunctionKey = functionKey
	cfg.DevOps.PAT = "pat"

	logger := zerolog.Nop()
	return server.New(cfg, &logger, nil)
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	mw := NewMiddlewares(s)
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext())

	e.POST("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	}, mw.Auth.RequireFunctionKey)

	return e
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	e := newTestEcho(newTestServer(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/protected", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())
}

func TestRequestIDIsReused(t *testing.T) {
	e := newTestEcho(newTestServer(""))

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))
}

func TestRequireFunctionKey(t *testing.T) {
	e := newTestEcho(newTestServer("k3y"))

	cases := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{"missing", "/protected", "", http.StatusUnauthorized},
		{"wrong header", "/protected", "nope", http.StatusUnauthorized},
		{"header", "/protected", "k3y", http.StatusOK},
		{"query", "/protected?code=k3y", "", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, tc.target, nil)
		if tc.header != "" {
			req.Header.Set(FunctionKeyHeader, tc.header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.name)
	}
}

func TestGlobalErrorHandlerRendersEnvelope(t *testing.T) {
	e := newTestEcho(newTestServer("k3y"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/protected", nil))

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body.Code)
	assert.Equal(t, http.StatusUnauthorized, body.Status)
}

func TestGlobalErrorHandlerRouteNotFound(t *testing.T) {
	e := newTestEcho(newTestServer(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body.Message)
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
}
