package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/handlers"
	"github.com/ekaya-inc/kpi-translator/pkg/mcp"
	mcpsession "github.com/ekaya-inc/kpi-translator/pkg/mcp/session"
	"github.com/ekaya-inc/kpi-translator/pkg/middleware"
	"github.com/ekaya-inc/kpi-translator/pkg/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and MCP server",
	Long: `Start the HTTP server. Each client creates a glossary session with
POST /api/sessions and then uses the REST routes under /api/sessions/{sid}
or the MCP endpoint at /mcp/{sid}.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return err
	}

	seed := seedFile(cfg)
	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("seed_file", seed),
		zap.Int("max_sessions", cfg.Glossary.MaxSessions),
		zap.Bool("tls", cfg.TLSCertPath != ""))

	factory := services.NewSeededGlossaryFactory(seed, tax, logger)
	// Fail fast on a bad seed file instead of on the first session.
	if _, err := factory(cmd.Context()); err != nil {
		return err
	}
	registry := services.NewSessionRegistry(factory, cfg.Glossary.MaxSessions, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, registry, logger).RegisterRoutes(mux)
	handlers.NewSessionHandler(registry, logger).RegisterRoutes(mux)
	handlers.NewGlossaryHandler(registry, logger).RegisterRoutes(mux)

	mcpServer := mcp.NewGlossaryServer(cfg.Version, logger)
	handlers.NewMCPHandler(mcpServer, logger).RegisterRoutes(mux, mcpsession.NewMiddleware(registry, logger))

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting kpi-translator",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if cfg.TLSCertPath != "" {
			serverErr <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
			return err
		}
		logger.Info("Server stopped gracefully")
	}
	return nil
}
