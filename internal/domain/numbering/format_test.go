package numbering

import (
	"testing"
	"time"
)

func mustTemplate(t *testing.T, letterType, desk, pattern string, reset ResetPeriod) *Template {
	t.Helper()
	tmpl, err := ParseTemplate(letterType, desk, pattern, reset)
	if err != nil {
		t.Fatalf("ParseTemplate(%q) failed: %v", pattern, err)
	}
	return tmpl
}

func TestRomanMonth(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "I"},
		{time.February, "II"},
		{time.August, "VIII"},
		{time.December, "XII"},
	}
	for _, tt := range tests {
		if got := RomanMonth(tt.month); got != tt.want {
			t.Errorf("RomanMonth(%v) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestTemplate_RenderDefaultPattern(t *testing.T) {
	tmpl := mustTemplate(t, "surat-keterangan-umum", "01", "", ResetYearly)
	p := PeriodFor(ResetYearly, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC))

	got := tmpl.Render(145, p)
	if got != "145/01/II/2025" {
		t.Errorf("Render = %q, want 145/01/II/2025", got)
	}
}

func TestTemplate_RenderPlaceholders(t *testing.T) {
	p := PeriodFor(ResetMonthly, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		pattern string
		seq     int64
		want    string
	}{
		{"{seq:3}/{kode}/{romawi}/{tahun}", 7, "007/474/III/2025"},
		{"{kode}.{seq}.{bulan}.{tahun}", 12, "474.12.03.2025"},
		{"REG-{seq:5}", 42, "REG-00042"},
	}
	for _, tt := range tests {
		tmpl := mustTemplate(t, "test", "474", tt.pattern, ResetMonthly)
		if got := tmpl.Render(tt.seq, p); got != tt.want {
			t.Errorf("Render(%q, %d) = %q, want %q", tt.pattern, tt.seq, got, tt.want)
		}
	}
}

func TestParseTemplate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		reset   ResetPeriod
	}{
		{"unterminated", "{seq/{kode}", ResetYearly},
		{"unknown placeholder", "{seq}/{desk}", ResetYearly},
		{"missing seq", "{kode}/{romawi}/{tahun}", ResetYearly},
		{"pad on non-seq", "{kode:3}/{seq}", ResetYearly},
		{"pad out of range", "{seq:0}", ResetYearly},
		{"bad reset period", "{seq}", ResetPeriod("quarter")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTemplate("test", "01", tt.pattern, tt.reset); err == nil {
				t.Errorf("ParseTemplate(%q) accepted invalid input", tt.pattern)
			}
		})
	}
}

func TestTemplate_InjectiveWithinPeriod(t *testing.T) {
	tmpl := mustTemplate(t, "test", "01", "{seq:3}/{kode}/{tahun}", ResetYearly)
	p := PeriodFor(ResetYearly, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	seen := make(map[string]int64)
	for seq := int64(1); seq <= 2000; seq++ {
		s := tmpl.Render(seq, p)
		if prev, dup := seen[s]; dup {
			t.Fatalf("sequence %d and %d both render to %q", prev, seq, s)
		}
		seen[s] = seq
	}
}

func TestPeriodFor(t *testing.T) {
	at := time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		reset ResetPeriod
		want  string
	}{
		{ResetYearly, "2025"},
		{ResetMonthly, "2025-11"},
		{ResetNever, "all"},
	}
	for _, tt := range tests {
		if got := PeriodFor(tt.reset, at); got.Key != tt.want {
			t.Errorf("PeriodFor(%q).Key = %q, want %q", tt.reset, got.Key, tt.want)
		}
	}
}
