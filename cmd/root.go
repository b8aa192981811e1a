package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"ninjapark-backend/config"
	"ninjapark-backend/logger"
	"ninjapark-backend/storage"
)

// Execute runs the CLI. With no sub-command it serves the API.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ninjapark",
		Short:        "Ninja Inflatable Park booking and CMS backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), seedRolesCmd(), setupSuperAdminCmd(), seedContentCmd())
	return root
}

// app holds the process-wide dependencies every command needs.
type app struct {
	cfg   *config.AppConfig
	log   *slog.Logger
	db    *gorm.DB
	redis *redis.Client
}

func loadApp(ctx context.Context) (*app, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env not found or couldn't load it; continuing with environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logger()); err != nil {
		return nil, err
	}
	log := logger.L()

	db, err := config.ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, db: db}
	if cfg.RedisURL != "" {
		client, err := storage.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, refresh tokens will be kept in the database", "error", err)
		} else {
			a.redis = client
		}
	}
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
