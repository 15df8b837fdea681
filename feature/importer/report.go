package importer

import "fmt"

// Mode selects how imported rows relate to existing guests.
type Mode string

const (
	// ModeAddOnly creates missing guests and skips every match.
	ModeAddOnly Mode = "ADD_ONLY"
	// ModeUpsert creates missing guests and updates administrative fields on match.
	ModeUpsert Mode = "UPSERT"
	// ModeSync is upsert plus deletion of guests absent from the file.
	ModeSync Mode = "SYNC"
	// ModeReplace wipes the guest list and reseeds it from the file.
	ModeReplace Mode = "REPLACE"
)

// ParseMode resolves a mode token. An unknown token is an operation-level
// error: the whole run fails before any row is processed.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeAddOnly, ModeUpsert, ModeSync, ModeReplace:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("unknown import mode: %q", raw)
	}
}

// Destructive reports whether the mode deletes guests that answered nothing
// wrong. Destructive modes demand the confirmation phrase.
func (m Mode) Destructive() bool {
	return m == ModeSync || m == ModeReplace
}

// ConfirmPhrase must be supplied verbatim (after trimming) to run a
// destructive mode.
const ConfirmPhrase = "BORRAR TODO"

// Row-level rejection codes. These are values in the report, not Go errors:
// a rejected row never aborts the batch.
const (
	CodeMissingName    = "MISSING_NAME"
	CodeInvalidPhone   = "INVALID_PHONE"
	CodeDupPhoneInFile = "DUP_PHONE_IN_FILE"
	CodeDupEmailInFile = "DUP_EMAIL_IN_FILE"
	CodeEmailConflict  = "EMAIL_CONFLICT"
	CodeStorageError   = "STORAGE_ERROR"
)

// RowError describes one rejected row. RowNumber counts from the top of the
// file including the header, so the first data row is 2; that is what a user
// sees in their spreadsheet.
type RowError struct {
	RowNumber int    `json:"row_number"`
	Field     string `json:"field"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Value     string `json:"value"`
}

// Report is the structured outcome of one import run. The error list is the
// single source of truth for partial failure; no rejection is ever silently
// dropped.
type Report struct {
	Mode          Mode       `json:"mode"`
	DryRun        bool       `json:"dry_run"`
	CreatedCount  int        `json:"created_count"`
	UpdatedCount  int        `json:"updated_count"`
	SkippedCount  int        `json:"skipped_count"`
	RejectedCount int        `json:"rejected_count"`
	Errors        []RowError `json:"errors"`
}

func (r *Report) reject(rowNumber int, field, code, message, value string) {
	r.Errors = append(r.Errors, RowError{
		RowNumber: rowNumber,
		Field:     field,
		Code:      code,
		Message:   message,
		Value:     value,
	})
	r.RejectedCount++
}
