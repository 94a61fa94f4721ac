package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/ekklesia/internal/api"
	"github.com/terraincognita07/ekklesia/internal/cache"
	"github.com/terraincognita07/ekklesia/internal/config"
	"github.com/terraincognita07/ekklesia/internal/metrics"
	"github.com/terraincognita07/ekklesia/internal/services"
)

const (
	bodyLimitBytes  = 6 << 20
	shutdownTimeout = 10 * time.Second
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(commandContext(cmd), cfg)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	database, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer closeDatabase(database)

	reference := services.DefaultReferenceCatalog()
	if cfg.ReferenceFile != "" {
		if reference, err = services.LoadReferenceCatalog(cfg.ReferenceFile); err != nil {
			return fmt.Errorf("load reference catalog: %w", err)
		}
	}

	appMetrics := metrics.New()
	options := api.Options{
		SecretKey:   cfg.SecretKey,
		TokenTTL:    cfg.TokenTTL,
		Location:    cfg.Location,
		MaxPageSize: cfg.MaxPageSize,
		UploadsDir:  cfg.UploadsDir,
		Reference:   reference,
		Church:      services.ChurchInfo{Name: cfg.ChurchName, City: cfg.ChurchCity},
	}
	if client := openRedis(cfg); client != nil {
		defer client.Close()
		options.StatisticsCache = cache.NewRedisStatisticsCache(client, cfg.StatsCacheTTL, appMetrics)
	}

	handler, err := api.NewHandler(database, options)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newApp(cfg, handler, appMetrics)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("ekklesia listening",
		"addr", "0.0.0.0:"+cfg.Port,
		"db_driver", cfg.DBDriver,
		"tz", cfg.Location.String(),
		"statistics_cache", options.StatisticsCache != nil,
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(cfg *config.Config, handler *api.Handler, appMetrics *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Ekklesia",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimitBytes,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          jsonErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(appMetrics.Middleware())

	app.Get("/metrics", appMetrics.Handler())
	app.Static("/uploads", cfg.UploadsDir)
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// jsonErrorHandler reports framework errors, such as oversized bodies, in
// the same shape as API errors.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	} else {
		slog.Error("unhandled request error", "path", c.Path(), "error", err)
	}

	kind := "internal_error"
	switch {
	case status == fiber.StatusNotFound:
		kind = services.KindNotFound
	case status < fiber.StatusInternalServerError:
		kind = services.KindValidation
	}
	return c.Status(status).JSON(fiber.Map{"error": kind, "message": message})
}
