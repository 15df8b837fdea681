package guest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guest-manager/core/config"
	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sentinel errors mapped to HTTP responses by the handler.
var (
	ErrEmailConflict  = errors.New("email already belongs to another guest")
	ErrPhoneConflict  = errors.New("phone already belongs to another guest")
	ErrDeadlinePassed = errors.New("the RSVP deadline has passed")
	ErrTooManyGuests  = errors.New("companion count exceeds the allowed maximum")
)

// Service handles guest records, RSVP submissions and identity recovery.
type Service struct {
	db          *gorm.DB
	logger      *zap.Logger
	defaultLang models.Language
	deadline    *time.Time
}

// NewService creates a new guest service. Event settings are threaded in here
// once instead of being read from the environment at call time.
func NewService(db *gorm.DB, logger *zap.Logger, event config.EventConfig) (*Service, error) {
	s := &Service{
		db:          db,
		logger:      logger,
		defaultLang: models.ParseLanguage(event.DefaultLanguage, models.LanguageEN),
	}
	if event.RSVPDeadline != "" {
		d, err := time.Parse("2006-01-02", event.RSVPDeadline)
		if err != nil {
			return nil, fmt.Errorf("invalid rsvp deadline %q: %w", event.RSVPDeadline, err)
		}
		// Submissions stay open through the deadline day itself.
		d = d.Add(24 * time.Hour)
		s.deadline = &d
	}
	return s, nil
}

// DefaultLanguage returns the configured fallback language.
func (s *Service) DefaultLanguage() models.Language {
	return s.defaultLang
}

// GetByCode returns the guest with the exact (trimmed) code, companions
// preloaded, or nil when no such guest exists.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Guest, error) {
	code = trimmed(code)
	if code == "" {
		return nil, nil
	}
	var g models.Guest
	err := s.db.WithContext(ctx).Preload("Companions").
		Where("guest_code = ?", code).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByPhone returns the guest whose stored phone matches the canonical form.
// Legacy rows may be stored with a leading '+', so both forms are tested.
func (s *Service) GetByPhone(ctx context.Context, phone string) (*models.Guest, error) {
	norm := normalize.Phone(phone)
	if norm == "" {
		return nil, nil
	}
	var g models.Guest
	err := s.db.WithContext(ctx).
		Where("phone = ? OR phone = ?", norm, "+"+norm).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByEmail returns the guest with a case-insensitive email match, or nil.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.Guest, error) {
	norm := normalize.Email(email)
	if norm == "" {
		return nil, nil
	}
	var g models.Guest
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", norm).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns every guest, companions preloaded, ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	err := s.db.WithContext(ctx).Preload("Companions").
		Order("full_name ASC").Find(&guests).Error
	return guests, err
}

// CreateInput carries the administrative fields for a new guest.
type CreateInput struct {
	FullName      string
	Email         string
	Phone         string
	Language      string
	InviteType    string
	Side          string
	Relationship  string
	GroupID       string
	MaxCompanions int
	GuestCode     string
}

// Create inserts a new guest, generating a unique code when none is supplied.
// Contact identity conflicts with existing guests are rejected.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Guest, error) {
	email := normalize.Email(in.Email)
	phone := normalize.Phone(in.Phone)

	if email != "" {
		if owner, err := s.GetByEmail(ctx, email); err != nil {
			return nil, err
		} else if owner != nil {
			return nil, ErrEmailConflict
		}
	}
	if phone != "" {
		if owner, err := s.GetByPhone(ctx, phone); err != nil {
			return nil, err
		} else if owner != nil {
			return nil, ErrPhoneConflict
		}
	}

	code := trimmed(in.GuestCode)
	if code == "" {
		code = models.GenerateGuestCode(in.FullName, s.codeIsFree(ctx))
	}

	maxComp := in.MaxCompanions
	if maxComp < 0 {
		maxComp = 0
	}

	g := models.Guest{
		GuestCode:     code,
		FullName:      trimmed(in.FullName),
		Email:         email,
		Phone:         phone,
		Language:      models.ParseLanguage(in.Language, s.defaultLang),
		InviteType:    models.ParseInviteType(in.InviteType),
		Side:          models.ParseSide(in.Side),
		Relationship:  trimmed(in.Relationship),
		GroupID:       trimmed(in.GroupID),
		MaxCompanions: maxComp,
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateAdmin overwrites the administrative fields of an existing guest.
// The guest code and the RSVP block are left untouched.
func (s *Service) UpdateAdmin(ctx context.Context, id uint, in CreateInput) (*models.Guest, error) {
	var g models.Guest
	err := s.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	email := normalize.Email(in.Email)
	if email != "" {
		owner, err := s.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != g.ID {
			return nil, ErrEmailConflict
		}
		g.Email = email
	}
	phone := normalize.Phone(in.Phone)
	if phone != "" {
		owner, err := s.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != g.ID {
			return nil, ErrPhoneConflict
		}
		g.Phone = phone
	}

	if name := trimmed(in.FullName); name != "" {
		g.FullName = name
	}
	g.Language = models.ParseLanguage(in.Language, g.Language)
	if in.InviteType != "" {
		g.InviteType = models.ParseInviteType(in.InviteType)
	}
	if side := models.ParseSide(in.Side); side != models.SideNone {
		g.Side = side
	}
	if rel := trimmed(in.Relationship); rel != "" {
		g.Relationship = rel
	}
	if grp := trimmed(in.GroupID); grp != "" {
		g.GroupID = grp
	}
	if in.MaxCompanions >= 0 {
		g.MaxCompanions = in.MaxCompanions
	}

	if err := s.db.WithContext(ctx).Save(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes a guest and, via cascade, its companions. Returns false when
// the guest does not exist.
func (s *Service) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Select("Companions").Delete(&models.Guest{ID: id})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// codeIsFree returns a uniqueness probe for code generation.
func (s *Service) codeIsFree(ctx context.Context) func(string) bool {
	return func(code string) bool {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Guest{}).
			Where("guest_code = ?", code).Count(&count).Error; err != nil {
			// On a probe failure, claim the code is taken so generation retries
			// rather than issuing a possibly duplicate code.
			return false
		}
		return count == 0
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
