package guest

import (
	"context"

	"guest-manager/core/logger"
	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"

	"go.uber.org/zap"
)

// phoneSuffixExpr builds the SQL expression extracting the last four digits of
// the stored phone, with formatting symbols stripped. Legacy rows may contain
// spaces, dashes, dots, parentheses or a leading '+'. SQLite has no RIGHT()
// function, so the suffix is taken with a negative SUBSTR index there.
func (s *Service) phoneSuffixExpr() string {
	const cleaned = "REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(phone, ' ', ''), '-', ''), '.', ''), '(', ''), ')', ''), '+', '')"
	if s.db.Dialector.Name() == "sqlite" {
		return "SUBSTR(" + cleaned + ", -4)"
	}
	return "RIGHT(" + cleaned + ", 4)"
}

// ResolveRecovery locates a guest from a free-text name and the last four
// digits of their phone number, used when a guest has lost their code.
//
// The email is advisory telemetry only: a mismatch is logged for audit but
// never blocks the match, a deliberate trade of strictness for recoverability.
// A nil, nil return means no match, which is a normal outcome, not an error.
func (s *Service) ResolveRecovery(ctx context.Context, fullName, phoneLast4, email string) (*models.Guest, error) {
	digits := normalize.Phone(phoneLast4)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	if len(digits) != 4 {
		s.logger.Debug("recovery rejected: invalid last4")
		return nil, nil
	}

	inputTokens := normalize.NameTokens(fullName)
	inputEmail := normalize.Email(email)

	// Shared family phones make multiple candidates per suffix expected.
	var candidates []models.Guest
	err := s.db.WithContext(ctx).
		Where(s.phoneSuffixExpr()+" = ?", digits).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	s.logger.Debug("recovery candidates", zap.Int("count", len(candidates)))

	for i := range candidates {
		g := &candidates[i]

		storedEmail := normalize.Email(g.Email)
		if inputEmail != "" && storedEmail != "" && storedEmail != inputEmail {
			s.logger.Warn("recovery email mismatch",
				zap.Uint("guest_id", g.ID),
				zap.String("stored", logger.MaskEmail(storedEmail)),
				zap.String("supplied", logger.MaskEmail(inputEmail)),
			)
		}

		// One shared significant token decides the match; empty token sets on
		// either side fail closed.
		if normalize.TokensOverlap(inputTokens, normalize.NameTokens(g.FullName)) {
			s.logger.Info("recovery match", zap.Uint("guest_id", g.ID))
			return g, nil
		}
	}

	s.logger.Debug("recovery: no match")
	return nil, nil
}
