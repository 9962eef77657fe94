package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/pbi-relay/internal/config"
)

func TestLoggerServiceDisabledWithoutLicense(t *testing.T) {
	ls := NewLoggerService(config.DefaultObservabilityConfig())

	assert.Nil(t, ls.GetApplication())
	ls.Shutdown()
}

func TestNilLoggerServiceIsSafe(t *testing.T) {
	var ls *LoggerService
	assert.Nil(t, ls.GetApplication())
}

func TestNewLoggerWritesJSONWithServiceFields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	log := newLogger(cfg, nil, &buf)
	log.Info().Str("request_id", "abc").Msg("hello")
	log.Debug().Msg("dropped at info level")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, config.ServiceName, line["service"])
	assert.Equal(t, "production", line["environment"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(config.DefaultObservabilityConfig(), nil, &buf)

	traced := WithTraceContext(log, nil)
	traced.Info().Msg("no trace")
	require.NotEmpty(t, buf.String())
	assert.NotContains(t, buf.String(), "trace.id")
}
