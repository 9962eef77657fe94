// Package server defines the Server struct that composes the relay's
// shared dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the Azure DevOps client
//   - the http.Server used by the Echo host
//
// The Lambda host builds a Server too but never calls Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/config"
	"github.com/deppfellow/pbi-relay/internal/lib/devops"
	loggerPkg "github.com/deppfellow/pbi-relay/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application; its application is
	// nil when New Relic is disabled.
	LoggerService *loggerPkg.LoggerService

	// DevOps creates work items. It carries the PAT resolved at start-up.
	DevOps *devops.Client

	httpServer *http.Server
}

// New assembles the container. cfg.DevOps.PAT must already be resolved.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *Server {
	client := devops.NewClient(devops.Options{
		BaseURL:      cfg.DevOps.BaseURL,
		Organization: cfg.DevOps.Organization,
		Project:      cfg.DevOps.Project,
		WorkItemType: cfg.DevOps.WorkItemType,
		APIVersion:   cfg.DevOps.APIVersion,
		Token:        cfg.DevOps.PAT,
		Timeout:      cfg.DevOps.Timeout,
	})

	if !client.HasToken() {
		logger.Error().
			Str("env_var", config.PATEnvVar).
			Msg("azure devops personal access token is missing, every request will fail with 500")
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DevOps:        client,
	}
}

// SetupHTTPServer configures the http.Server with handler and the
// configured timeouts.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("devops_endpoint", s.DevOps.Endpoint()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown()

	return nil
}
