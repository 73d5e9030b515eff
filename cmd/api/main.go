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

	"github.com/mohammadpnp/student-import/internal/bootstrap"
	"github.com/mohammadpnp/student-import/internal/config"
	"github.com/mohammadpnp/student-import/internal/infrastructure/db"
	"github.com/mohammadpnp/student-import/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "api",
		Short:        "Serve the student import HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configFile)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "Config file (defaults to ./config.yml when present)")
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, closeDB, err := db.Open(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, gdb); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	server := bootstrap.NewHTTPServer(bootstrap.NewServices(gdb, cfg, logger), cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Addr()))
		if err := server.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
