package guest

import (
	"guest-manager/core/config"

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

// NewFeature creates the guest feature. adminAuth guards the administrative
// routes; the RSVP routes stay public (the guest code is the credential).
func NewFeature(db *gorm.DB, log *zap.Logger, event config.EventConfig, adminAuth fiber.Handler) (*Feature, error) {
	svc, err := NewService(db, log, event)
	if err != nil {
		return nil, err
	}
	return &Feature{
		service:   svc,
		handler:   NewHandler(svc, log),
		adminAuth: adminAuth,
	}, nil
}

// Service exposes the guest service to sibling features.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "guest"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterPublicRoutes(app)
	f.handler.RegisterAdminRoutes(app.Group("/admin", f.adminAuth))
	return nil
}
