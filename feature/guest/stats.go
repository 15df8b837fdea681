package guest

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"guest-manager/feature/guest/models"
)

// Stats aggregates the dashboard counters for the admin UI.
type Stats struct {
	TotalGuests    int `json:"total_guests"`
	Confirmed      int `json:"confirmed"`
	Declined       int `json:"declined"`
	Pending        int `json:"pending"`
	TotalAdults    int `json:"total_adults"`
	TotalChildren  int `json:"total_children"`
	CeremonyGuests int `json:"ceremony_guests"`
}

// Stats computes attendance counters over the full guest list. A single pass
// over the snapshot is cheap at the expected list sizes.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var guests []models.Guest
	if err := s.db.WithContext(ctx).Find(&guests).Error; err != nil {
		return nil, err
	}

	st := &Stats{TotalGuests: len(guests)}
	for _, g := range guests {
		switch {
		case g.Confirmed == nil:
			st.Pending++
		case *g.Confirmed:
			st.Confirmed++
			st.TotalAdults += g.NumAdults
			st.TotalChildren += g.NumChildren
		default:
			st.Declined++
		}
		if g.InviteType.IncludesCeremony() {
			st.CeremonyGuests++
		}
	}
	return st, nil
}

// exportHeader uses the primary import alias of each field, so an exported
// file can be re-imported unchanged.
var exportHeader = []string{
	"full_name", "email", "phone", "language", "invite_type",
	"side", "relationship", "group_id", "max_accomp", "guest_code",
}

// ExportCSV streams the guest list as CSV. Only identity and administrative
// fields are exported; the output round-trips through the importer.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	guests, err := s.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, g := range guests {
		record := []string{
			g.FullName,
			g.Email,
			g.Phone,
			string(g.Language),
			string(g.InviteType),
			string(g.Side),
			g.Relationship,
			g.GroupID,
			strconv.Itoa(g.MaxCompanions),
			g.GuestCode,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
