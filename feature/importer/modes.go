package importer

import (
	"context"
	"strings"

	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type opKind int

const (
	opCreate opKind = iota
	opUpdate
)

// plannedOp is one store mutation decided by the planner. Skips and
// rejections are recorded directly in the report and need no op.
type plannedOp struct {
	kind    opKind
	row     Row
	guestID uint // opUpdate only
	byCode  bool // opUpdate only: matched via supplied code
}

// plan decides what each validated row does to the store without touching it.
// The report counts are filled here so that a dry run and a committed run of
// the same input produce the same report.
//
// addOnly switches between the two matching policies: ADD_ONLY (and REPLACE,
// which is ADD_ONLY over a wiped store) skips every match, while UPSERT and
// SYNC update matched guests.
func plan(rows []Row, idx *recordIndex, addOnly bool, report *Report) []plannedOp {
	var ops []plannedOp

	for _, row := range rows {
		id, byCode, found := idx.match(row)

		if addOnly {
			if found {
				report.SkippedCount++
				continue
			}
			if row.Email != "" {
				if _, taken := idx.emailToID[row.Email]; taken {
					report.reject(row.RowNumber, "email", CodeEmailConflict,
						"email already belongs to another guest", row.Email)
					continue
				}
			}
			idx.claim(row, pendingID)
			ops = append(ops, plannedOp{kind: opCreate, row: row})
			report.CreatedCount++
			continue
		}

		// Upsert matching: the email may not be owned by a different guest
		// than the one resolved by code/phone.
		if row.Email != "" {
			if owner, taken := idx.emailToID[row.Email]; taken && (!found || owner != id) {
				report.reject(row.RowNumber, "email", CodeEmailConflict,
					"email already belongs to another guest", row.Email)
				continue
			}
		}

		if !found {
			idx.claim(row, pendingID)
			ops = append(ops, plannedOp{kind: opCreate, row: row})
			report.CreatedCount++
			continue
		}

		if id == pendingID {
			// Matched a row earlier in this same batch (duplicate supplied
			// code); there is nothing persisted yet to update.
			report.SkippedCount++
			continue
		}

		ops = append(ops, plannedOp{kind: opUpdate, row: row, guestID: id, byCode: byCode})
		report.UpdatedCount++
	}

	return ops
}

// apply executes planned operations inside the run's transaction. A failing
// row is logged, flipped from its planned count to rejected, and the batch
// continues; no row-level failure aborts the run.
func (s *Service) apply(ctx context.Context, tx *gorm.DB, ops []plannedOp, idx *recordIndex, report *Report) error {
	for _, op := range ops {
		var err error
		switch op.kind {
		case opCreate:
			err = s.applyCreate(ctx, tx, op.row, idx)
			if err != nil {
				report.CreatedCount--
			}
		case opUpdate:
			err = s.applyUpdate(ctx, tx, op, idx)
			if err != nil {
				report.UpdatedCount--
			}
		}
		if err != nil {
			s.logger.Error("import row failed",
				zap.Int("row", op.row.RowNumber), zap.Error(err))
			report.reject(op.row.RowNumber, "row", CodeStorageError, err.Error(), op.row.PhoneRaw)
		}
	}
	return nil
}

func (s *Service) applyCreate(ctx context.Context, tx *gorm.DB, row Row, idx *recordIndex) error {
	code := row.GuestCode
	if code == "" {
		code = models.GenerateGuestCode(row.FullName, func(candidate string) bool {
			_, taken := idx.codeToID[strings.ToUpper(candidate)]
			return !taken
		})
	}

	g := models.Guest{
		GuestCode:     code,
		FullName:      row.FullName,
		Email:         row.Email,
		Phone:         row.Phone,
		Language:      row.Language,
		InviteType:    row.InviteType,
		Side:          row.Side,
		Relationship:  row.Relationship,
		GroupID:       row.GroupID,
		MaxCompanions: row.MaxCompanions,
	}
	if err := tx.WithContext(ctx).Create(&g).Error; err != nil {
		return err
	}

	idx.codeToID[strings.ToUpper(code)] = g.ID
	idx.phoneToID[row.Phone] = g.ID
	if row.Email != "" {
		idx.emailToID[row.Email] = g.ID
	}
	return nil
}

// applyUpdate overwrites administrative fields only. The guest code is never
// modified, whatever the file says: distributed links depend on it. The phone
// is corrected only when the row matched by code, which is the one case where
// a differing phone is a correction rather than a different person.
func (s *Service) applyUpdate(ctx context.Context, tx *gorm.DB, op plannedOp, idx *recordIndex) error {
	var g models.Guest
	if err := tx.WithContext(ctx).First(&g, op.guestID).Error; err != nil {
		return err
	}

	row := op.row
	g.FullName = row.FullName
	if row.Email != "" {
		g.Email = row.Email
	}
	if op.byCode && normalize.Phone(g.Phone) != row.Phone {
		s.logger.Info("import corrects phone via code match",
			zap.String("guest_code", g.GuestCode))
		g.Phone = row.Phone
		idx.phoneToID[row.Phone] = g.ID
	}
	g.Language = row.Language
	g.InviteType = row.InviteType
	if row.Side != models.SideNone {
		g.Side = row.Side
	}
	if row.Relationship != "" {
		g.Relationship = row.Relationship
	}
	if row.GroupID != "" {
		g.GroupID = row.GroupID
	}
	g.MaxCompanions = row.MaxCompanions

	// Save writes the whole row back; the RSVP block was loaded untouched
	// above, so its values persist byte-identical.
	return tx.WithContext(ctx).Save(&g).Error
}

// deleteAbsent removes every guest whose canonical phone is not present in
// the accepted batch, the SYNC post-step. Guests without any phone are
// unreachable by the file and are removed as well.
func (s *Service) deleteAbsent(ctx context.Context, tx *gorm.DB, rows []Row) (int, error) {
	phones := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		phones[row.Phone] = struct{}{}
	}

	var guests []models.Guest
	if err := tx.WithContext(ctx).Find(&guests).Error; err != nil {
		return 0, err
	}

	deleted := 0
	for i := range guests {
		g := &guests[i]
		p := normalize.Phone(g.Phone)
		if p != "" {
			if _, keep := phones[p]; keep {
				continue
			}
		}
		if err := tx.WithContext(ctx).Where("guest_id = ?", g.ID).Delete(&models.Companion{}).Error; err != nil {
			return deleted, err
		}
		if err := tx.WithContext(ctx).Where("guest_id = ?", g.ID).Delete(&models.RsvpLog{}).Error; err != nil {
			return deleted, err
		}
		if err := tx.WithContext(ctx).Delete(g).Error; err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// wipeAll removes every guest, companion and RSVP log, the REPLACE pre-step.
func (s *Service) wipeAll(ctx context.Context, tx *gorm.DB) error {
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&models.RsvpLog{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("1 = 1").Delete(&models.Companion{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Where("1 = 1").Delete(&models.Guest{}).Error
}
