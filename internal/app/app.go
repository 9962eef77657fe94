// Package app wires configuration, logging, secrets and handlers into the
// pieces both hosts (HTTP server and Lambda) start from.
package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/config"
	"github.com/deppfellow/pbi-relay/internal/handler"
	"github.com/deppfellow/pbi-relay/internal/lib/secrets"
	"github.com/deppfellow/pbi-relay/internal/logger"
	"github.com/deppfellow/pbi-relay/internal/server"
	"github.com/deppfellow/pbi-relay/internal/service"
)

const secretLookupTimeout = 10 * time.Second

type App struct {
	Server   *server.Server
	Handlers *handler.Handlers
	Logger   *zerolog.Logger
}

// New loads configuration and builds the application. A failed secret
// lookup is logged and not fatal: requests then fail with 500 until the
// credential is provided.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.DevOps.SecretName != "" && !cfg.DevOps.HasCredential() {
		resolveCredential(ctx, cfg, &log)
	}

	srv := server.New(cfg, &log, loggerService)
	services := service.NewServices(srv)

	return &App{
		Server:   srv,
		Handlers: handler.NewHandlers(srv, services),
		Logger:   &log,
	}, nil
}

func resolveCredential(ctx context.Context, cfg *config.Config, log *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, secretLookupTimeout)
	defer cancel()

	resolver, err := secrets.NewAWSResolver(ctx, cfg.DevOps.SecretRegion, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create secrets resolver")
		return
	}

	if err := resolver.Resolve(ctx, &cfg.DevOps); err != nil {
		log.Error().Err(err).
			Str("secret_name", cfg.DevOps.SecretName).
			Msg("failed to resolve azure devops personal access token")
	}
}
