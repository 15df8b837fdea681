package importer

import (
	"strconv"
	"strings"

	"guest-manager/core/normalize"
	"guest-manager/feature/guest/models"
)

// Row is one validated input line, canonicalized and typed. Rows are
// ephemeral: they live for the duration of a single run.
type Row struct {
	RowNumber int

	FullName string
	PhoneRaw string
	Phone    string // canonical, >= 6 digits
	Email    string // normalized, may be empty

	Language      models.Language
	InviteType    models.InviteType
	Side          models.Side
	Relationship  string
	GroupID       string
	MaxCompanions int

	// GuestCode is a caller-supplied match key, upper-cased. It never
	// overwrites the code of an existing guest.
	GuestCode string
}

// validateRows turns raw records into typed rows, rejecting malformed and
// in-file-duplicate rows into the report. The first failing rule wins and the
// row has no further effect. Enum fields never reject: unrecognized values
// fall back to safe defaults, and a malformed companion allowance clamps to 0.
func validateRows(records []map[string]string, defaultLang models.Language, report *Report) []Row {
	rows := make([]Row, 0, len(records))
	seenPhones := make(map[string]struct{})
	seenEmails := make(map[string]struct{})

	for i, rec := range records {
		rowNumber := i + 2 // header row is 1

		fullName := firstValue(rec, "full_name")
		phoneRaw := firstValue(rec, "phone")
		phone := normalize.Phone(phoneRaw)
		email := normalize.Email(firstValue(rec, "email"))

		if fullName == "" {
			report.reject(rowNumber, "full_name", CodeMissingName, "name is required", "")
			continue
		}
		if phone == "" {
			report.reject(rowNumber, "phone", CodeInvalidPhone, "phone is empty or has no digits", phoneRaw)
			continue
		}
		if len(phone) < 6 {
			report.reject(rowNumber, "phone", CodeInvalidPhone, "phone too short (minimum 6 digits)", phoneRaw)
			continue
		}
		if _, dup := seenPhones[phone]; dup {
			report.reject(rowNumber, "phone", CodeDupPhoneInFile, "phone duplicated in this file", phoneRaw)
			continue
		}
		if email != "" {
			if _, dup := seenEmails[email]; dup {
				report.reject(rowNumber, "email", CodeDupEmailInFile, "email duplicated in this file", email)
				continue
			}
		}

		seenPhones[phone] = struct{}{}
		if email != "" {
			seenEmails[email] = struct{}{}
		}

		maxComp := parseBoundedInt(firstValue(rec, "max_accomp"))

		rows = append(rows, Row{
			RowNumber:     rowNumber,
			FullName:      fullName,
			PhoneRaw:      phoneRaw,
			Phone:         phone,
			Email:         email,
			Language:      models.ParseLanguage(firstValue(rec, "language"), defaultLang),
			InviteType:    models.ParseInviteType(firstValue(rec, "invite_type")),
			Side:          models.ParseSide(firstValue(rec, "side")),
			Relationship:  firstValue(rec, "relationship"),
			GroupID:       firstValue(rec, "group_id"),
			MaxCompanions: maxComp,
			GuestCode:     strings.ToUpper(firstValue(rec, "guest_code")),
		})
	}

	return rows
}

// parseBoundedInt parses a non-negative integer; malformed or negative input
// clamps to 0 rather than rejecting the row.
func parseBoundedInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
