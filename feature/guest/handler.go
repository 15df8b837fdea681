package guest

import (
	"errors"
	"strconv"

	"guest-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for guests and RSVP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterPublicRoutes registers the guest-facing routes (code access only).
func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/rsvp/:code", h.HandleGetByCode)
	app.Post("/rsvp/:code", h.HandleSubmitRSVP)
	app.Post("/recover", h.HandleRecover)
}

// RegisterAdminRoutes registers the administrative CRUD routes.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/stats", h.HandleStats)
	admin.Get("/guests", h.HandleList)
	admin.Get("/guests/export", h.HandleExport)
	admin.Post("/guests", h.HandleCreate)
	admin.Put("/guests/:id", h.HandleUpdate)
	admin.Delete("/guests/:id", h.HandleDelete)
}

// HandleGetByCode loads a guest by invitation code.
// @Summary Get Guest by Code
// @Description Loads the guest and companions for the RSVP form. Acts as a read-only implicit login.
// @Tags rsvp
// @Produce json
// @Param code path string true "Guest code (e.g. 'ANAGARC-8H2K')"
// @Success 200 {object} models.Guest
// @Failure 404 {object} map[string]string "Unknown code"
// @Router /rsvp/{code} [get]
func (h *Handler) HandleGetByCode(c *fiber.Ctx) error {
	g, err := h.service.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return h.internal(c, "guest lookup failed", err)
	}
	if g == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown guest code"})
	}
	return c.JSON(g)
}

// HandleSubmitRSVP records an attendance answer.
// @Summary Submit RSVP
// @Description Records attendance, dietary notes and the companion list for a guest.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param code path string true "Guest code"
// @Param payload body RSVPRequest true "RSVP payload"
// @Success 200 {object} models.Guest
// @Failure 400 {object} map[string]string "Too many companions"
// @Failure 403 {object} map[string]string "Deadline passed"
// @Failure 404 {object} map[string]string "Unknown code"
// @Failure 409 {object} map[string]string "Contact identity conflict"
// @Router /rsvp/{code} [post]
func (h *Handler) HandleSubmitRSVP(c *fiber.Ctx) error {
	var req RSVPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	g, err := h.service.SubmitRSVP(c.Context(), c.Params("code"), req)
	switch {
	case errors.Is(err, ErrDeadlinePassed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTooManyGuests):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrEmailConflict), errors.Is(err, ErrPhoneConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return h.internal(c, "rsvp submission failed", err)
	case g == nil:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown guest code"})
	}
	return c.JSON(g)
}

type recoverRequest struct {
	FullName   string `json:"full_name"`
	PhoneLast4 string `json:"phone_last4"`
	Email      string `json:"email"`
}

// HandleRecover resolves a lost invitation code.
// @Summary Recover Guest Code
// @Description Resolves a guest from their name and the last 4 phone digits. The email is advisory only.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param payload body recoverRequest true "Recovery payload"
// @Success 200 {object} map[string]string "Resolved guest code"
// @Failure 404 {object} map[string]string "No match"
// @Router /recover [post]
func (h *Handler) HandleRecover(c *fiber.Ctx) error {
	var req recoverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	g, err := h.service.ResolveRecovery(c.Context(), req.FullName, req.PhoneLast4, req.Email)
	if err != nil {
		return h.internal(c, "recovery lookup failed", err)
	}
	if g == nil {
		// No partial-match metadata is exposed beyond the boolean outcome.
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no matching guest"})
	}

	l := logger.WithRayID(h.logger, c)
	l.Info("guest code recovered", zap.Uint("guest_id", g.ID))
	return c.JSON(fiber.Map{"guest_code": g.GuestCode})
}

// HandleStats returns the dashboard counters.
// @Summary Dashboard Stats
// @Tags admin
// @Produce json
// @Success 200 {object} Stats
// @Router /admin/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	st, err := h.service.Stats(c.Context())
	if err != nil {
		return h.internal(c, "stats failed", err)
	}
	return c.JSON(st)
}

// HandleList returns every guest.
// @Summary List Guests
// @Tags admin
// @Produce json
// @Success 200 {array} models.Guest
// @Router /admin/guests [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	guests, err := h.service.List(c.Context())
	if err != nil {
		return h.internal(c, "guest list failed", err)
	}
	return c.JSON(guests)
}

// HandleExport streams the guest list as CSV.
// @Summary Export Guests CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV body"
// @Router /admin/guests/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="guests.csv"`)
	return h.service.ExportCSV(c.Context(), c.Response().BodyWriter())
}

type guestPayload struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Language      string `json:"language"`
	InviteType    string `json:"invite_type"`
	Side          string `json:"side"`
	Relationship  string `json:"relationship"`
	GroupID       string `json:"group_id"`
	MaxCompanions int    `json:"max_companions"`
	GuestCode     string `json:"guest_code"`
}

func (p guestPayload) toInput() CreateInput {
	return CreateInput{
		FullName:      p.FullName,
		Email:         p.Email,
		Phone:         p.Phone,
		Language:      p.Language,
		InviteType:    p.InviteType,
		Side:          p.Side,
		Relationship:  p.Relationship,
		GroupID:       p.GroupID,
		MaxCompanions: p.MaxCompanions,
		GuestCode:     p.GuestCode,
	}
}

// HandleCreate inserts a single guest.
// @Summary Create Guest
// @Tags admin
// @Accept json
// @Produce json
// @Param payload body guestPayload true "Guest fields"
// @Success 201 {object} models.Guest
// @Failure 409 {object} map[string]string "Contact identity conflict"
// @Router /admin/guests [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var p guestPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if p.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name is required"})
	}

	g, err := h.service.Create(c.Context(), p.toInput())
	switch {
	case errors.Is(err, ErrEmailConflict), errors.Is(err, ErrPhoneConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return h.internal(c, "guest create failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// HandleUpdate overwrites the administrative fields of a guest.
// @Summary Update Guest
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Guest ID"
// @Param payload body guestPayload true "Guest fields"
// @Success 200 {object} models.Guest
// @Failure 404 {object} map[string]string "Unknown guest"
// @Failure 409 {object} map[string]string "Contact identity conflict"
// @Router /admin/guests/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guest id"})
	}
	var p guestPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	g, err := h.service.UpdateAdmin(c.Context(), uint(id), p.toInput())
	switch {
	case errors.Is(err, ErrEmailConflict), errors.Is(err, ErrPhoneConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return h.internal(c, "guest update failed", err)
	case g == nil:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown guest"})
	}
	return c.JSON(g)
}

// HandleDelete removes a guest.
// @Summary Delete Guest
// @Tags admin
// @Param id path int true "Guest ID"
// @Success 204
// @Failure 404 {object} map[string]string "Unknown guest"
// @Router /admin/guests/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid guest id"})
	}
	deleted, err := h.service.Delete(c.Context(), uint(id))
	if err != nil {
		return h.internal(c, "guest delete failed", err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown guest"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) internal(c *fiber.Ctx, msg string, err error) error {
	l := logger.WithRayID(h.logger, c)
	l.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
