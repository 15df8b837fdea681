package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"guest-manager/core/config"
	"guest-manager/core/database"
	"guest-manager/core/loader"
	"guest-manager/core/logger"
	"guest-manager/core/middleware/auth"
	"guest-manager/core/middleware/rayid"
	"guest-manager/core/storage"

	"guest-manager/feature/guest"
	"guest-manager/feature/guest/models"
	"guest-manager/feature/importer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "guest-manager/docs/swagger"
)

// @title Guest Manager API
// @version 1.0
// @description API for managing a wedding guest list and RSVPs.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the guest manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required: the guest list lives here)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.Guest{}, &models.Companion{}, &models.RsvpLog{}); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}
		logg.Info("Connected to guest database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Storage (Optional: only the import archive uses it)
		var store storage.Client
		if cfg.Storage.Enabled() {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		} else {
			logg.Info("Object storage not configured, import archiving disabled")
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// Middleware Registration
		// RayID must be first so every log line of a request carries it.
		app.Use(rayid.New())

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

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// The RSVP surface stays public (the guest code is the credential);
		// features mount their own /admin groups behind this handler.
		adminAuth := auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		guestFeature, err := guest.NewFeature(db, logg, cfg.Event, adminAuth)
		if err != nil {
			logg.Fatal("Failed to initialize guest feature", zap.Error(err))
		}
		mgr.Register(guestFeature)
		mgr.Register(importer.NewFeature(db, logg, store, cfg.Storage.Bucket, cfg.Event, adminAuth))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
