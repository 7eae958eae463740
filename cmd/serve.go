package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"section-mirror/core/config"
	"section-mirror/core/database"
	"section-mirror/core/loader"
	"section-mirror/core/logger"
	"section-mirror/core/middleware/auth"
	"section-mirror/core/middleware/rayid"
	"section-mirror/core/server"
	"section-mirror/core/storage"
	"section-mirror/feature/integrity"
	"section-mirror/feature/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "section-mirror/docs/swagger"
)

// @title Section Mirror API
// @version 1.0
// @description Observable, sectioned mirror of a store's items with its change journal and health checks.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mirror HTTP server",
	Long:  `Migrates and seeds the store, builds the mirror and serves it over HTTP until interrupted.`,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	// Storage is optional: without an endpoint snapshots cannot be exported.
	var client storage.Client
	if cfg.Storage.Endpoint != "" {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	storeUUID, err := inventory.Prepare(ctx, db, cfg.Inventory, client, cfg.Storage.Bucket, logg)
	if err != nil {
		return fmt.Errorf("failed to prepare inventory: %w", err)
	}
	svc, err := inventory.NewService(ctx, inventory.NewRepository(db), storeUUID, client, cfg.Storage.Bucket, cfg.Inventory, logg)
	if err != nil {
		return fmt.Errorf("failed to build mirror: %w", err)
	}
	defer svc.Close()

	app := newApp(cfg.Server, logg)

	mgr := loader.NewManager(logg)
	mgr.Register(inventory.NewFeature(svc, logg))
	mgr.Register(integrity.NewFeature(client, cfg.Storage.Bucket, logg, db, svc))
	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server",
			zap.String("address", cfg.Server.Address()),
			zap.String("store", storeUUID),
			zap.Strings("features", loaded),
		)
		errCh <- app.Listen(cfg.Server.Address())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sig:
	}
	logg.Info("Shutting down server...")
	return app.Shutdown()
}

// newApp builds the fiber app with the global middleware chain. Swagger is
// mounted before auth so the API docs stay public.
func newApp(cfg server.Config, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line can be traced.
	app.Use(rayid.New())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.WithRayID(logg, c).Error("Request panicked", zap.Any("panic", e))
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(cfg.ApiKey))
	return app
}
