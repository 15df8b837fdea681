package importer

import (
	"testing"

	"guest-manager/feature/guest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport() *Report {
	return &Report{Mode: ModeUpsert, Errors: []RowError{}}
}

func TestValidateRows_RejectionOrder(t *testing.T) {
	records := []map[string]string{
		{"full_name": "", "phone": "600111222"},        // row 2: missing name
		{"full_name": "Sin Telefono", "phone": "n/a"},  // row 3: no digits
		{"full_name": "Corto", "phone": "12345"},       // row 4: too short
		{"full_name": "Ana", "phone": "600 111 222"},   // row 5: ok
		{"full_name": "Ana Bis", "phone": "600111222"}, // row 6: dup phone
	}

	report := newReport()
	rows := validateRows(records, models.LanguageEN, report)

	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].RowNumber)
	assert.Equal(t, "600111222", rows[0].Phone)

	require.Len(t, report.Errors, 4)
	assert.Equal(t, 4, report.RejectedCount)
	assert.Equal(t, CodeMissingName, report.Errors[0].Code)
	assert.Equal(t, 2, report.Errors[0].RowNumber)
	assert.Equal(t, CodeInvalidPhone, report.Errors[1].Code)
	assert.Equal(t, CodeInvalidPhone, report.Errors[2].Code)
	assert.Equal(t, CodeDupPhoneInFile, report.Errors[3].Code)
	assert.Equal(t, 6, report.Errors[3].RowNumber)
}

func TestValidateRows_DuplicateEmailInFile(t *testing.T) {
	records := []map[string]string{
		{"full_name": "Ana", "phone": "600111222", "email": "Ana@Example.com"},
		{"full_name": "Eva", "phone": "600333444", "email": "ana@example.com "},
	}

	report := newReport()
	rows := validateRows(records, models.LanguageEN, report)

	require.Len(t, rows, 1)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, CodeDupEmailInFile, report.Errors[0].Code)
	assert.Equal(t, 3, report.Errors[0].RowNumber)
}

func TestValidateRows_EmptyEmailsNeverCollide(t *testing.T) {
	records := []map[string]string{
		{"full_name": "Ana", "phone": "600111222"},
		{"full_name": "Eva", "phone": "600333444"},
	}

	report := newReport()
	rows := validateRows(records, models.LanguageEN, report)

	assert.Len(t, rows, 2)
	assert.Empty(t, report.Errors)
}

func TestValidateRows_EnumFallbacks(t *testing.T) {
	records := []map[string]string{
		{
			"full_name":   "Ana",
			"phone":       "600111222",
			"language":    "klingon",
			"invite_type": "whatever",
			"side":        "neither",
			"max_accomp":  "-3",
		},
		{
			"full_name":   "Eva",
			"phone":       "600333444",
			"language":    "ES",
			"invite_type": "ceremony",
			"side":        "Bride",
			"max_accomp":  "2",
		},
	}

	report := newReport()
	rows := validateRows(records, models.LanguageEN, report)
	require.Len(t, rows, 2)
	assert.Empty(t, report.Errors, "enum fields never reject a row")

	assert.Equal(t, models.LanguageEN, rows[0].Language)
	assert.Equal(t, models.InviteParty, rows[0].InviteType)
	assert.Equal(t, models.SideNone, rows[0].Side)
	assert.Equal(t, 0, rows[0].MaxCompanions)

	assert.Equal(t, models.LanguageES, rows[1].Language)
	assert.Equal(t, models.InviteFull, rows[1].InviteType)
	assert.Equal(t, models.SideBride, rows[1].Side)
	assert.Equal(t, 2, rows[1].MaxCompanions)
}

func TestValidateRows_GuestCodeUppercased(t *testing.T) {
	records := []map[string]string{
		{"full_name": "Ana", "phone": "600111222", "guest_code": "anagar-1x2y"},
	}

	report := newReport()
	rows := validateRows(records, models.LanguageEN, report)
	require.Len(t, rows, 1)
	assert.Equal(t, "ANAGAR-1X2Y", rows[0].GuestCode)
}

func TestParseBoundedInt(t *testing.T) {
	assert.Equal(t, 0, parseBoundedInt(""))
	assert.Equal(t, 0, parseBoundedInt("abc"))
	assert.Equal(t, 0, parseBoundedInt("-1"))
	assert.Equal(t, 3, parseBoundedInt(" 3 "))
}

func TestParseMode(t *testing.T) {
	for _, raw := range []string{"ADD_ONLY", "UPSERT", "SYNC", "REPLACE"} {
		m, err := ParseMode(raw)
		require.NoError(t, err)
		assert.Equal(t, Mode(raw), m)
	}

	_, err := ParseMode("add_only")
	assert.Error(t, err, "mode tokens are case-sensitive")
	_, err = ParseMode("")
	assert.Error(t, err)
}

func TestModeDestructive(t *testing.T) {
	assert.False(t, ModeAddOnly.Destructive())
	assert.False(t, ModeUpsert.Destructive())
	assert.True(t, ModeSync.Destructive())
	assert.True(t, ModeReplace.Destructive())
}
