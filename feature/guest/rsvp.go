package guest

import (
	"context"
	"time"

	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RSVPCompanion is one companion in an RSVP submission.
type RSVPCompanion struct {
	Name      string `json:"name"`
	IsChild   bool   `json:"is_child"`
	Allergies string `json:"allergies"`
}

// RSVPRequest is the payload of an RSVP submission.
type RSVPRequest struct {
	Attending          bool            `json:"attending"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Allergies          string          `json:"allergies"`
	Notes              string          `json:"notes"`
	NeedsTransport     bool            `json:"needs_transport"`
	NeedsAccommodation bool            `json:"needs_accommodation"`
	Companions         []RSVPCompanion `json:"companions"`
}

// SubmitRSVP records a guest's attendance answer atomically.
//
// Only the RSVP block is written here: attendance, dietary data, counters and
// the companion list (replaced wholesale). Contact fields are updated only
// when the guest supplies them. Administrative fields and the guest code are
// never touched. Each submission appends an RsvpLog row.
func (s *Service) SubmitRSVP(ctx context.Context, code string, req RSVPRequest) (*models.Guest, error) {
	if s.deadline != nil && time.Now().After(*s.deadline) {
		return nil, ErrDeadlinePassed
	}

	g, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}

	if req.Attending && len(req.Companions) > g.MaxCompanions {
		return nil, ErrTooManyGuests
	}

	now := time.Now().UTC()
	attending := req.Attending
	g.Confirmed = &attending
	g.ConfirmedAt = &now
	g.Notes = trimmed(req.Notes)
	g.NeedsTransport = req.NeedsTransport
	g.NeedsAccommodation = req.NeedsAccommodation

	var companions []models.Companion
	if !attending {
		g.Allergies = ""
		g.NumAdults = 0
		g.NumChildren = 0
	} else {
		g.Allergies = trimmed(req.Allergies)

		// Contact data is kept current when provided, with the same conflict
		// protection the admin CRUD applies.
		if email := normalize.Email(req.Email); email != "" {
			owner, err := s.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if owner != nil && owner.ID != g.ID {
				return nil, ErrEmailConflict
			}
			g.Email = email
		}
		if phone := normalize.Phone(req.Phone); phone != "" {
			owner, err := s.GetByPhone(ctx, phone)
			if err != nil {
				return nil, err
			}
			if owner != nil && owner.ID != g.ID {
				return nil, ErrPhoneConflict
			}
			g.Phone = phone
		}

		// The lead guest counts as one adult.
		adults, children := 1, 0
		for _, c := range req.Companions {
			companions = append(companions, models.Companion{
				GuestID:   g.ID,
				Name:      trimmed(c.Name),
				IsChild:   c.IsChild,
				Allergies: trimmed(c.Allergies),
			})
			if c.IsChild {
				children++
			} else {
				adults++
			}
		}
		g.NumAdults = adults
		g.NumChildren = children
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Companions are replaced wholesale on every submission.
		if err := tx.Where("guest_id = ?", g.ID).Delete(&models.Companion{}).Error; err != nil {
			return err
		}
		g.Companions = nil
		if err := tx.Save(g).Error; err != nil {
			return err
		}
		if len(companions) > 0 {
			if err := tx.Create(&companions).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.RsvpLog{
			GuestID:    g.ID,
			Attending:  attending,
			Companions: len(companions),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	g.Companions = companions
	s.logger.Info("rsvp recorded",
		zap.String("guest_code", g.GuestCode),
		zap.Bool("attending", attending),
		zap.Int("companions", len(companions)),
	)
	return g, nil
}
