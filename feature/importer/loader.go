package importer

import (
	"guest-manager/core/config"
	"guest-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service   *Service
	handler   *Handler
	adminAuth fiber.Handler
}

// NewFeature creates the importer feature. store may be nil when object
// storage is not configured; imports then run without an audit archive.
func NewFeature(db *gorm.DB, log *zap.Logger, store storage.Client, bucket string, event config.EventConfig, adminAuth fiber.Handler) *Feature {
	var archiver *Archiver
	if store != nil {
		archiver = NewArchiver(store, bucket, log)
	}
	svc := NewService(db, log, archiver, event)
	return &Feature{
		service:   svc,
		handler:   NewHandler(svc, log),
		adminAuth: adminAuth,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "importer"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app.Group("/admin", f.adminAuth))
	return nil
}
