package main

import (
	"context"
	"fmt"

	"github.com/mohammadpnp/student-import/internal/bootstrap"
	"github.com/mohammadpnp/student-import/internal/config"
	"github.com/mohammadpnp/student-import/internal/infrastructure/db"
	"github.com/mohammadpnp/student-import/internal/infrastructure/file"
	"github.com/mohammadpnp/student-import/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "importctl",
		Short:        "Import student CSV files from the command line",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (defaults to ./config.yml when present)")

	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newPreviewCmd(opts))
	return cmd
}

// environment is what a subcommand needs once config is loaded and the
// database is reachable.
type environment struct {
	services bootstrap.Services
	source   *file.LocalSource
	logger   *zap.Logger
	close    func()
}

func setup(ctx context.Context, opts *rootOptions) (*environment, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	gdb, closeDB, err := db.Open(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, gdb); err != nil {
			closeDB()
			return nil, err
		}
	}

	return &environment{
		services: bootstrap.NewServices(gdb, cfg, logger),
		source:   file.NewLocalSource(cfg.ImportBaseDir, cfg.ImportMaxUploadBytes),
		logger:   logger,
		close: func() {
			closeDB()
			_ = logger.Sync()
		},
	}, nil
}
