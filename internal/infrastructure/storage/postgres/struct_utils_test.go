package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/domain/surat"
)

func TestExtractDBColumns_Reservation(t *testing.T) {
	cols := ExtractDBColumns[numbering.Reservation]()

	expectedCols := []string{
		"id", "letter_type", "period_key", "sequence_value", "formatted_number",
		"status", "manual", "created_by", "created_at", "confirmed_at", "released_at",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.Len(t, cols, len(expectedCols))
}

func TestExtractDBColumns_EmbeddedRow(t *testing.T) {
	cols := ExtractDBColumns[suratRow]()

	// Columns of the embedded entity plus the raw payload override.
	assert.Contains(t, cols, "nomor_surat")
	assert.Contains(t, cols, "payload")

	// The entity's Payload field is db:"-" and must not produce a column.
	count := 0
	for _, c := range cols {
		if c == "payload" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestStructToMap_Reservation(t *testing.T) {
	now := time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)
	r := numbering.Reservation{
		ID:              id.New(),
		LetterType:      "surat-keterangan-usaha",
		PeriodKey:       "2025",
		SequenceValue:   145,
		FormattedNumber: "145/03/II/2025",
		Status:          numbering.StatusPending,
		Manual:          false,
		CreatedAt:       now,
	}

	m := StructToMap(r)

	assert.Equal(t, r.ID, m["id"])
	assert.Equal(t, "surat-keterangan-usaha", m["letter_type"])
	assert.Equal(t, int64(145), m["sequence_value"])
	assert.Equal(t, "145/03/II/2025", m["formatted_number"])
	assert.Equal(t, numbering.StatusPending, m["status"])
	assert.Equal(t, now, m["created_at"])
}

func TestStructToMap_SkipsIgnoredFields(t *testing.T) {
	entry := surat.Surat{
		ID:         id.New(),
		LetterType: "N1",
		PemohonNIK: "3201011503900001",
		Payload:    map[string]any{"nama_usaha": "Warung Bu Siti"},
	}

	m := StructToMap(entry)

	assert.NotContains(t, m, "payload")
	assert.Equal(t, "N1", m["letter_type"])
	assert.Equal(t, "3201011503900001", m["pemohon_nik"])
}

func TestStructToMap_EmbeddedStruct(t *testing.T) {
	row := suratRow{
		Surat: surat.Surat{
			ID:         id.New(),
			LetterType: "N1",
		},
		PayloadRaw: []byte(`{"a":1}`),
	}

	m := StructToMap(row)

	assert.Equal(t, "N1", m["letter_type"])
	assert.Equal(t, []byte(`{"a":1}`), m["payload"])
}
