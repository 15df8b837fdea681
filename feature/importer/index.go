package importer

import (
	"context"
	"strings"

	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"

	"gorm.io/gorm"
)

// pendingID marks a key claimed by a row earlier in the same batch whose
// guest has not been created yet.
const pendingID uint = 0

// recordIndex caches one store snapshot as lookup maps for a single run.
// It is never persisted; rebuilding is O(n) in guest count, fine for lists
// of hundreds to low thousands.
type recordIndex struct {
	codeToID  map[string]uint // key upper-cased
	phoneToID map[string]uint // key canonical digits
	emailToID map[string]uint // key lower-cased
}

// buildIndex snapshots the current guest table. Stored phones are
// re-canonicalized on the way in: legacy rows may carry formatting.
func buildIndex(ctx context.Context, db *gorm.DB) (*recordIndex, error) {
	idx := &recordIndex{
		codeToID:  make(map[string]uint),
		phoneToID: make(map[string]uint),
		emailToID: make(map[string]uint),
	}

	var guests []models.Guest
	if err := db.WithContext(ctx).Find(&guests).Error; err != nil {
		return nil, err
	}

	for _, g := range guests {
		if code := strings.ToUpper(strings.TrimSpace(g.GuestCode)); code != "" {
			idx.codeToID[code] = g.ID
		}
		if p := normalize.Phone(g.Phone); p != "" {
			idx.phoneToID[p] = g.ID
		}
		if e := normalize.Email(g.Email); e != "" {
			idx.emailToID[e] = g.ID
		}
	}
	return idx, nil
}

// match resolves a row against the index: supplied code first, canonical
// phone second. The bool reports whether the code key won.
func (idx *recordIndex) match(row Row) (id uint, byCode, found bool) {
	if row.GuestCode != "" {
		if id, ok := idx.codeToID[row.GuestCode]; ok {
			return id, true, true
		}
	}
	if id, ok := idx.phoneToID[row.Phone]; ok {
		return id, false, true
	}
	return 0, false, false
}

// claim reserves the row's keys so later rows in the same batch see this
// creation.
func (idx *recordIndex) claim(row Row, id uint) {
	idx.phoneToID[row.Phone] = id
	if row.GuestCode != "" {
		idx.codeToID[row.GuestCode] = id
	}
	if row.Email != "" {
		idx.emailToID[row.Email] = id
	}
}
