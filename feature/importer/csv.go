package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeTable reads a tabular file into header-keyed records. The header row
// is required; data rows are numbered from 2 to match what a user sees in
// their spreadsheet.
//
// Excel exports commonly carry a UTF-8 BOM, which is stripped. Files that are
// not valid UTF-8 at all are re-decoded as Windows-1252, the usual legacy
// encoding of spreadsheets in the wild.
func decodeTable(data []byte) ([]map[string]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("undecodable input: %w", err)
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: header row is required")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid header row: %w", err)
	}
	// Header matching is case-insensitive; the alias tables are lowercase.
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var records []map[string]string
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid row %d: %w", len(records)+2, err)
		}
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" || i >= len(fields) {
				continue
			}
			if _, dup := rec[h]; dup {
				continue
			}
			rec[h] = fields[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// fieldAliases maps each semantic field to its accepted header names in
// priority order. The localized variants come from the spreadsheets this
// list has historically been maintained in.
var fieldAliases = map[string][]string{
	"full_name":    {"full_name", "nombre", "nombre_completo", "nombre completo"},
	"email":        {"email", "correo", "correo_electronico"},
	"phone":        {"phone", "telefono", "teléfono", "movil", "celular"},
	"language":     {"language", "idioma"},
	"invite_type":  {"invite_type", "tipo_invitacion", "tipo_invitación", "tipo invitación"},
	"side":         {"side", "lado"},
	"relationship": {"relationship", "relacion", "relación"},
	"group_id":     {"group_id", "grupo", "group id", "group"},
	"max_accomp":   {"max_accomp", "max_acomp", "max_acompanantes", "máx. acomp", "max. acomp"},
	"guest_code":   {"guest_code", "codigo", "code"},
}

// firstValue resolves a semantic field from a record, taking the first alias
// that carries a non-blank value.
func firstValue(rec map[string]string, field string) string {
	for _, alias := range fieldAliases[field] {
		if v := strings.TrimSpace(rec[alias]); v != "" {
			return v
		}
	}
	return ""
}
