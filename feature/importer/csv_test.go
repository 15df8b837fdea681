package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeTable_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("full_name,phone\nAna,600111222\n")...)

	records, err := decodeTable(data)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0]["full_name"])
	assert.Equal(t, "600111222", records[0]["phone"])
}

func TestDecodeTable_Windows1252Fallback(t *testing.T) {
	// "José García" encoded as Windows-1252 is not valid UTF-8.
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte("full_name,phone\nJosé García,600111222\n"))
	require.NoError(t, err)

	records, err := decodeTable(encoded)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "José García", records[0]["full_name"])
}

func TestDecodeTable_HeaderCaseInsensitive(t *testing.T) {
	records, err := decodeTable([]byte("Full_Name,PHONE\nAna,600111222\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0]["full_name"])
	assert.Equal(t, "600111222", records[0]["phone"])
}

func TestDecodeTable_EmptyInput(t *testing.T) {
	_, err := decodeTable([]byte(""))
	assert.Error(t, err)
}

func TestDecodeTable_RaggedRows(t *testing.T) {
	records, err := decodeTable([]byte("full_name,phone,email\nAna,600111222\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0]["full_name"])
	_, hasEmail := records[0]["email"]
	assert.False(t, hasEmail, "missing trailing column should stay absent")
}

func TestFirstValue_SpanishAliases(t *testing.T) {
	rec := map[string]string{
		"nombre":   "Ana García",
		"telefono": "600 111 222",
		"idioma":   "es",
	}

	assert.Equal(t, "Ana García", firstValue(rec, "full_name"))
	assert.Equal(t, "600 111 222", firstValue(rec, "phone"))
	assert.Equal(t, "es", firstValue(rec, "language"))
	assert.Equal(t, "", firstValue(rec, "email"))
}

func TestFirstValue_PrimaryNameWins(t *testing.T) {
	rec := map[string]string{
		"full_name": "Primary",
		"nombre":    "Secondary",
	}
	assert.Equal(t, "Primary", firstValue(rec, "full_name"))
}

func TestFirstValue_SkipsBlankAlias(t *testing.T) {
	rec := map[string]string{
		"full_name": "   ",
		"nombre":    "Ana",
	}
	assert.Equal(t, "Ana", firstValue(rec, "full_name"))
}
