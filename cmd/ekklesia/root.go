package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/ekklesia/internal/cache"
	"github.com/terraincognita07/ekklesia/internal/config"
	"github.com/terraincognita07/ekklesia/internal/db"
	"gorm.io/gorm"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ekklesia",
		Short:         "Church membership directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
			configureLogger(os.Getenv("LOG_LEVEL"))
		},
	}
	root.AddCommand(newServeCommand(), newResetPasswordCommand(), newImportCommand())
	return root
}

// loadDotEnv lets a local .env override the process environment.
func loadDotEnv() {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file, skipping", "error", err)
	}
}

func configureLogger(rawLevel string) slog.Level {
	level := slog.LevelInfo
	if strings.TrimSpace(rawLevel) != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(rawLevel))); err != nil {
			level = slog.LevelInfo
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	return level
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	return db.Open(db.Options{
		Driver:      cfg.DBDriver,
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	})
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Warn("close database failed", "error", err)
	}
}

// openRedis returns nil when no cache is configured or it is unreachable;
// statistics are then computed on every request.
func openRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	client, err := cache.NewClient(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Warn("statistics cache disabled", "addr", cfg.RedisAddr, "error", err)
		return nil
	}
	return client
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
