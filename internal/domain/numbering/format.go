package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"suratdesa/internal/core/apperror"
)

// romanMonths maps month numbers to the Roman numerals used on official letters.
var romanMonths = [...]string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// RomanMonth returns the Roman numeral for a month (I..XII).
func RomanMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return romanMonths[m]
}

// DefaultPattern is the canonical desa number layout: 145/01/II/2025.
const DefaultPattern = "{seq}/{kode}/{romawi}/{tahun}"

// segment is one compiled piece of a pattern: either a literal or a placeholder.
type segment struct {
	literal string
	kind    string // "seq", "kode", "romawi", "bulan", "tahun"
	pad     int    // zero-pad width for {seq:N}
}

// Template renders a sequence value and period metadata into the official
// number string for one letter type. Compiled once at registry build time;
// rendering is pure and deterministic. Distinct sequence values always render
// to distinct strings because every pattern must contain the full {seq} value.
type Template struct {
	letterType string
	deskCode   string
	reset      ResetPeriod
	segments   []segment
}

// ParseTemplate compiles a number pattern for a letter type.
// Supported placeholders: {seq}, {seq:N}, {kode}, {romawi}, {bulan}, {tahun}.
// A pattern without {seq} cannot be injective and is rejected.
func ParseTemplate(letterType, deskCode, pattern string, reset ResetPeriod) (*Template, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !reset.Valid() {
		return nil, apperror.NewInvalidFormatTemplate(letterType, fmt.Sprintf("unknown reset period %q", reset))
	}

	t := &Template{letterType: letterType, deskCode: deskCode, reset: reset}
	hasSeq := false

	rest := pattern
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.segments = append(t.segments, segment{literal: rest})
			break
		}
		if open > 0 {
			t.segments = append(t.segments, segment{literal: rest[:open]})
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, apperror.NewInvalidFormatTemplate(letterType, "unterminated placeholder")
		}
		name := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		seg := segment{kind: name}
		if base, padStr, ok := strings.Cut(name, ":"); ok {
			pad, err := strconv.Atoi(padStr)
			if err != nil || pad < 1 || pad > 12 || base != "seq" {
				return nil, apperror.NewInvalidFormatTemplate(letterType, fmt.Sprintf("bad placeholder {%s}", name))
			}
			seg.kind = base
			seg.pad = pad
		}

		switch seg.kind {
		case "seq":
			hasSeq = true
		case "kode", "romawi", "bulan", "tahun":
		default:
			return nil, apperror.NewInvalidFormatTemplate(letterType, fmt.Sprintf("unknown placeholder {%s}", name))
		}
		t.segments = append(t.segments, seg)
	}

	if !hasSeq {
		return nil, apperror.NewInvalidFormatTemplate(letterType, "pattern must contain {seq}")
	}
	return t, nil
}

// LetterType returns the letter type code this template belongs to.
func (t *Template) LetterType() string {
	return t.letterType
}

// Reset returns the template's reset policy.
func (t *Template) Reset() ResetPeriod {
	return t.reset
}

// Render formats a sequence value for the given period.
func (t *Template) Render(seq int64, p Period) string {
	var b strings.Builder
	for _, s := range t.segments {
		switch s.kind {
		case "":
			b.WriteString(s.literal)
		case "seq":
			if s.pad > 0 {
				fmt.Fprintf(&b, "%0*d", s.pad, seq)
			} else {
				b.WriteString(strconv.FormatInt(seq, 10))
			}
		case "kode":
			b.WriteString(t.deskCode)
		case "romawi":
			b.WriteString(RomanMonth(p.Month))
		case "bulan":
			fmt.Fprintf(&b, "%02d", p.Month)
		case "tahun":
			fmt.Fprintf(&b, "%04d", p.Year)
		}
	}
	return b.String()
}

// TemplateSet holds compiled templates keyed by letter type code.
// Built once at startup from configuration; read-only afterwards.
type TemplateSet struct {
	templates map[string]*Template
}

// NewTemplateSet compiles the given templates into a set.
func NewTemplateSet(templates ...*Template) *TemplateSet {
	set := &TemplateSet{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		set.templates[t.letterType] = t
	}
	return set
}

// Get returns the template for a letter type, or false if none is registered.
func (s *TemplateSet) Get(letterType string) (*Template, bool) {
	t, ok := s.templates[letterType]
	return t, ok
}

// Codes lists all registered letter type codes.
func (s *TemplateSet) Codes() []string {
	codes := make([]string, 0, len(s.templates))
	for code := range s.templates {
		codes = append(codes, code)
	}
	return codes
}
