package lettertype

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/domain/numbering"
)

func TestNewRegistryDefaults(t *testing.T) {
	r, err := NewRegistry(DefaultDefinitions())
	require.NoError(t, err)

	lt, ok := r.Get("surat-keterangan-umum")
	require.True(t, ok)
	assert.Equal(t, "01", lt.DeskCode)
	assert.Equal(t, numbering.ResetYearly, lt.Reset)
	assert.True(t, lt.Fee.IsZero())
	assert.False(t, lt.HasRule())

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "surat-keterangan-umum", all[0].Code)
}

func TestRegistryTemplateSet(t *testing.T) {
	r, err := NewRegistry(DefaultDefinitions())
	require.NoError(t, err)

	set := r.TemplateSet()
	tmpl, ok := set.Get("N1")
	require.True(t, ok)

	p := numbering.PeriodFor(numbering.ResetYearly, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "N1/007/II/2025", tmpl.Render(7, p))
}

func TestNewRegistryRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"missing code", []Definition{{Name: "x", DeskCode: "01"}}},
		{"duplicate code", []Definition{
			{Code: "a", Name: "A", DeskCode: "01"},
			{Code: "a", Name: "A2", DeskCode: "02"},
		}},
		{"bad pattern", []Definition{{Code: "a", Name: "A", DeskCode: "01", Pattern: "{kode}/{tahun}"}}},
		{"bad reset", []Definition{{Code: "a", Name: "A", DeskCode: "01", Reset: "weekly"}}},
		{"negative fee", []Definition{{Code: "a", Name: "A", DeskCode: "01", Fee: "-5"}}},
		{"bad fee", []Definition{{Code: "a", Name: "A", DeskCode: "01", Fee: "abc"}}},
		{"bad rule", []Definition{{Code: "a", Name: "A", DeskCode: "01", Rule: "payload ++"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs)
			assert.Error(t, err)
		})
	}
}

func TestValidatePayloadRule(t *testing.T) {
	r, err := NewRegistry(DefaultDefinitions())
	require.NoError(t, err)

	usaha, ok := r.Get("surat-keterangan-usaha")
	require.True(t, ok)
	require.True(t, usaha.HasRule())

	ctx := context.Background()

	err = usaha.ValidatePayload(ctx, map[string]any{"nama_usaha": "Warung Bu Siti"})
	assert.NoError(t, err)

	err = usaha.ValidatePayload(ctx, map[string]any{"nama_usaha": ""})
	assert.Error(t, err)

	err = usaha.ValidatePayload(ctx, map[string]any{})
	assert.Error(t, err)
}

func TestValidatePayloadNoRule(t *testing.T) {
	r, err := NewRegistry(DefaultDefinitions())
	require.NoError(t, err)

	umum, ok := r.Get("surat-keterangan-umum")
	require.True(t, ok)

	assert.NoError(t, umum.ValidatePayload(context.Background(), nil))
}

func TestRegistryFeeParsing(t *testing.T) {
	r, err := NewRegistry([]Definition{
		{Code: "berbayar", Name: "Berbayar", DeskCode: "09", Fee: "15000"},
	})
	require.NoError(t, err)

	lt, ok := r.Get("berbayar")
	require.True(t, ok)
	assert.Equal(t, "15000", lt.Fee.String())
}
