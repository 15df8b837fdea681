package guest

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"guest-manager/core/config"
	"guest-manager/feature/guest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupGuestDB creates an in-memory SQLite DB for guest tests
func setupGuestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Guest{}, &models.Companion{}, &models.RsvpLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newGuestService(t *testing.T, db *gorm.DB, event config.EventConfig) *Service {
	if event.DefaultLanguage == "" {
		event.DefaultLanguage = "en"
	}
	svc, err := NewService(db, zap.NewNop(), event)
	require.NoError(t, err)
	return svc
}

func TestNewService_RejectsBadDeadline(t *testing.T) {
	db := setupGuestDB(t, "guest_bad_deadline")
	_, err := NewService(db, zap.NewNop(), config.EventConfig{RSVPDeadline: "31/12/2026"})
	assert.Error(t, err)
}

func TestCreate_GeneratesCode(t *testing.T) {
	db := setupGuestDB(t, "guest_create")
	svc := newGuestService(t, db, config.EventConfig{})

	g, err := svc.Create(context.Background(), CreateInput{
		FullName: "Ana García",
		Phone:    "+34 600 111 222",
		Email:    "Ana@Example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, g.GuestCode, "ANAGARC-")
	assert.Equal(t, "34600111222", g.Phone)
	assert.Equal(t, "ana@example.com", g.Email)
	assert.Equal(t, models.LanguageEN, g.Language)
	assert.Nil(t, g.Confirmed)
}

func TestCreate_ContactConflicts(t *testing.T) {
	db := setupGuestDB(t, "guest_create_conflicts")
	svc := newGuestService(t, db, config.EventConfig{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FullName: "Ana", Phone: "600111222", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{FullName: "Eva", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrEmailConflict)

	_, err = svc.Create(ctx, CreateInput{FullName: "Eva", Phone: "600-111-222"})
	assert.ErrorIs(t, err, ErrPhoneConflict)
}

func TestGetByCode(t *testing.T) {
	db := setupGuestDB(t, "guest_get_code")
	svc := newGuestService(t, db, config.EventConfig{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{FullName: "Ana", GuestCode: "ANA-1234"})
	require.NoError(t, err)

	g, err := svc.GetByCode(ctx, "  ANA-1234  ")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, created.ID, g.ID)

	g, err = svc.GetByCode(ctx, "NOPE-0000")
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = svc.GetByCode(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestGetByPhone_LegacyPlusPrefix(t *testing.T) {
	db := setupGuestDB(t, "guest_get_phone")
	svc := newGuestService(t, db, config.EventConfig{})
	ctx := context.Background()

	// A legacy row stored with a leading '+'.
	require.NoError(t, db.Create(&models.Guest{
		GuestCode: "OLD-0001", FullName: "Ana", Phone: "+34600111222",
	}).Error)

	g, err := svc.GetByPhone(ctx, "34 600 111 222")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "OLD-0001", g.GuestCode)
}

func TestUpdateAdmin_PreservesCodeAndRSVP(t *testing.T) {
	db := setupGuestDB(t, "guest_update")
	svc := newGuestService(t, db, config.EventConfig{})
	ctx := context.Background()

	confirmed := true
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	g := models.Guest{
		GuestCode: "ANA-1234", FullName: "Ana García", Phone: "600111222",
		Confirmed: &confirmed, ConfirmedAt: &at, Allergies: "nuts", NumAdults: 2,
	}
	require.NoError(t, db.Create(&g).Error)

	updated, err := svc.UpdateAdmin(ctx, g.ID, CreateInput{
		FullName:      "Ana García López",
		Relationship:  "cousin",
		MaxCompanions: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "ANA-1234", updated.GuestCode)
	assert.Equal(t, "Ana García López", updated.FullName)
	assert.Equal(t, "cousin", updated.Relationship)
	require.NotNil(t, updated.Confirmed)
	assert.True(t, *updated.Confirmed)
	assert.Equal(t, "nuts", updated.Allergies)
	assert.Equal(t, 2, updated.NumAdults)

	missing, err := svc.UpdateAdmin(ctx, 9999, CreateInput{FullName: "Nadie"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelete_CascadesCompanions(t *testing.T) {
	db := setupGuestDB(t, "guest_delete")
	svc := newGuestService(t, db, config.EventConfig{})
	ctx := context.Background()

	g := models.Guest{GuestCode: "ANA-1234", FullName: "Ana"}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Create(&models.Companion{GuestID: g.ID, Name: "Plus One"}).Error)

	deleted, err := svc.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var companions int64
	db.Model(&models.Companion{}).Where("guest_id = ?", g.ID).Count(&companions)
	assert.EqualValues(t, 0, companions)

	deleted, err = svc.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStats(t *testing.T) {
	db := setupGuestDB(t, "guest_stats")
	svc := newGuestService(t, db, config.EventConfig{})

	yes, no := true, false
	require.NoError(t, db.Create(&[]models.Guest{
		{GuestCode: "A-0001", FullName: "A", InviteType: models.InviteFull,
			Confirmed: &yes, NumAdults: 2, NumChildren: 1},
		{GuestCode: "B-0002", FullName: "B", InviteType: models.InviteParty,
			Confirmed: &no},
		{GuestCode: "C-0003", FullName: "C", InviteType: models.InviteFull,
			NumAdults: 5}, // pending: counters ignored
	}).Error)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalGuests)
	assert.Equal(t, 1, st.Confirmed)
	assert.Equal(t, 1, st.Declined)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, 2, st.TotalAdults)
	assert.Equal(t, 1, st.TotalChildren)
	assert.Equal(t, 2, st.CeremonyGuests)
}

func TestExportCSV_Header(t *testing.T) {
	db := setupGuestDB(t, "guest_export")
	svc := newGuestService(t, db, config.EventConfig{})

	require.NoError(t, db.Create(&models.Guest{
		GuestCode: "ANA-1234", FullName: "Ana García", Phone: "600111222",
		Language: models.LanguageES, InviteType: models.InviteFull, MaxCompanions: 2,
	}).Error)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	out := buf.String()
	assert.Contains(t, out, "full_name,email,phone,language,invite_type,side,relationship,group_id,max_accomp,guest_code")
	assert.Contains(t, out, "Ana García,,600111222,es,full,,,,2,ANA-1234")
}
