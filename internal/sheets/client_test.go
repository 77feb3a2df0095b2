package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRow(id string) []any {
	return []any{
		id, "Ayşe Yılmaz", "Ayşe", "Boğaziçi", "CS",
		"ayse@example.com", "+905551234567", "tr-TR",
		"doc-1", "Senior student.", "2026-01-15",
	}
}

func TestParseRows_MapsFixedSchema(t *testing.T) {
	records := parseRows([][]any{fullRow("p1")})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "p1", rec.PersonID)
	assert.Equal(t, "Ayşe Yılmaz", rec.FullName)
	assert.Equal(t, "Ayşe", rec.PreferredName)
	assert.Equal(t, "+905551234567", rec.Phone)
	assert.Equal(t, "tr-TR", rec.Locale)
	assert.Equal(t, "doc-1", rec.ProfileDocID)
	assert.Equal(t, "Senior student.", rec.ProfileText)
	assert.Equal(t, "2026-01-15", rec.LastUpdated)
}

func TestParseRows_SkipsShortRows(t *testing.T) {
	rows := [][]any{
		{"p1", "Ayşe Yılmaz"},
		fullRow("p2"),
		{},
	}
	records := parseRows(rows)
	require.Len(t, records, 1)
	assert.Equal(t, "p2", records[0].PersonID)
}

func TestParseRows_StringifiesNonStringCells(t *testing.T) {
	row := fullRow("p1")
	row[10] = 20260115
	records := parseRows([][]any{row})
	require.Len(t, records, 1)
	assert.Equal(t, "20260115", records[0].LastUpdated)
}

func TestParseRows_NilCellBecomesEmpty(t *testing.T) {
	row := fullRow("p1")
	row[8] = nil
	records := parseRows([][]any{row})
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].ProfileDocID)
}
