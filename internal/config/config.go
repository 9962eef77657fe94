// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when one exists), loads them into structured Go types, and validates
// that required values are present so the relay fails fast on bad config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values.
//   - Provide defaults for the Azure DevOps target and observability.
package config

import (
	"fmt"
	"strings"
	"time"

	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/deppfellow/pbi-relay/internal/validation"
)

const (
	// EnvPrefix is stripped from every variable the relay reads.
	// Nesting uses a double underscore:
	//   PBI_RELAY_DEVOPS__BASE_URL -> devops.base_url -> Config.DevOps.BaseURL
	EnvPrefix = "PBI_RELAY_"

	// PATEnvVar holds the Azure DevOps personal access token. It keeps the
	// name the deployed function always used, outside of EnvPrefix.
	PATEnvVar = "AZURE_DEVOPS_PAT"

	// ServiceName tags logs and New Relic data.
	ServiceName = "pbi-relay"
)

// Config is the root configuration object for the relay.
//
// Observability is a pointer for parity with optional blocks; Load always
// fills it with defaults before reading the environment.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	DevOps        DevOpsConfig         `koanf:"devops" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP host.
//
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// MaxBodyBytes caps the inbound request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"required,min=1"`

	// FunctionKey, when set, must be presented by callers in the
	// x-functions-key header or the code query parameter.
	FunctionKey string `koanf:"function_key"`
}

// DevOpsConfig describes the Azure DevOps work-item creation route and the
// credential used to call it.
type DevOpsConfig struct {
	BaseURL      string        `koanf:"base_url" validate:"required,url"`
	Organization string        `koanf:"organization" validate:"required"`
	Project      string        `koanf:"project" validate:"required"`
	WorkItemType string        `koanf:"work_item_type" validate:"required"`
	APIVersion   string        `koanf:"api_version" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"min=1s"`

	// PAT is deliberately not required: a missing token is reported per
	// request as a 500 instead of refusing to boot.
	PAT string `koanf:"pat"`

	// SecretName names an AWS Secrets Manager secret holding the PAT. It is
	// consulted only when PAT is empty.
	SecretName   string `koanf:"secret_name"`
	SecretRegion string `koanf:"secret_region"`
}

// Validate checks the struct tags, then rules spanning sections.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	// The server must outlive the outbound call or a 504 is never written.
	if time.Duration(c.Server.WriteTimeout)*time.Second <= c.DevOps.Timeout {
		return validation.CustomValidationErrors{{
			Field:   "write_timeout",
			Message: fmt.Sprintf("must exceed devops timeout (%s)", c.DevOps.Timeout),
		}}
	}

	return nil
}

// HasCredential reports whether a PAT is available.
func (c DevOpsConfig) HasCredential() bool {
	return strings.TrimSpace(c.PAT) != ""
}

// DefaultConfig returns the configuration used before the environment is
// applied. The DevOps target reproduces the route the relay was built for.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			MaxBodyBytes: 1 << 20,
		},
		DevOps: DevOpsConfig{
			BaseURL:      "https://dev.azure.com",
			Organization: "dbaron49",
			Project:      "Pruebas",
			WorkItemType: "Product Backlog Item",
			APIVersion:   "6.0",
			Timeout:      30 * time.Second,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// Load reads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// The PAT lives outside the prefix; map the exact name and skip
	// anything else sharing it.
	err = k.Load(env.Provider(PATEnvVar, ".", func(s string) string {
		if s != PATEnvVar {
			return ""
		}
		return "devops.pat"
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", PATEnvVar, err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if fieldErrors := validation.Check(mainConfig); fieldErrors != nil {
		return nil, fmt.Errorf("config validation failed: %s", validation.Describe(fieldErrors))
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if fieldErrors := validation.Check(mainConfig.Observability); fieldErrors != nil {
		return nil, fmt.Errorf("invalid observability config: %s", validation.Describe(fieldErrors))
	}

	return mainConfig, nil
}
