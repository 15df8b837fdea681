package importer

import (
	"errors"
	"io"

	"guest-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for bulk imports.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterRoutes registers the import routes on the admin router.
func (h *Handler) RegisterRoutes(admin fiber.Router) {
	admin.Post("/import", h.HandleImport)
	admin.Get("/imports", h.HandleListArchives)
	admin.Get("/imports/:id/report", h.HandleArchivedReport)
}

// HandleImport runs a bulk reconciliation of the guest list.
// @Summary Import Guests
// @Description Imports a CSV of guests under ADD_ONLY, UPSERT, SYNC or REPLACE semantics. SYNC and REPLACE require the confirmation phrase.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (header row required)"
// @Param mode formData string true "ADD_ONLY | UPSERT | SYNC | REPLACE"
// @Param dry_run formData bool false "Plan without committing"
// @Param confirm_text formData string false "Literal confirmation phrase for destructive modes"
// @Success 200 {object} Report
// @Failure 400 {object} map[string]string "Bad mode, missing confirmation or undecodable file"
// @Router /admin/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	mode, err := ParseMode(c.FormValue("mode"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := h.fileBytes(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	opts := Options{
		Mode:        mode,
		DryRun:      c.FormValue("dry_run") == "true" || c.FormValue("dry_run") == "1",
		ConfirmText: c.FormValue("confirm_text"),
	}

	report, err := h.service.Run(c.Context(), data, opts)
	if errors.Is(err, ErrConfirmationRequired) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		l.Error("import run failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// fileBytes reads the uploaded file, accepting either a multipart "file"
// field or a raw CSV body.
func (h *Handler) fileBytes(c *fiber.Ctx) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	if len(c.Body()) == 0 {
		return nil, errors.New("missing CSV: upload a 'file' field or a raw body")
	}
	return c.Body(), nil
}

// HandleListArchives lists archived import runs.
// @Summary List Import Archives
// @Tags import
// @Produce json
// @Success 200 {array} string
// @Failure 404 {object} map[string]string "Archiving not configured"
// @Router /admin/imports [get]
func (h *Handler) HandleListArchives(c *fiber.Ctx) error {
	if h.service.archiver == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "import archiving is not configured"})
	}
	ids, err := h.service.archiver.List(c.Context())
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		l.Error("archive listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ids)
}

// HandleArchivedReport returns the stored report of a past run.
// @Summary Get Archived Import Report
// @Tags import
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} Report
// @Failure 404 {object} map[string]string "Unknown run or archiving not configured"
// @Router /admin/imports/{id}/report [get]
func (h *Handler) HandleArchivedReport(c *fiber.Ctx) error {
	if h.service.archiver == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "import archiving is not configured"})
	}
	data, err := h.service.archiver.Report(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown import run"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
