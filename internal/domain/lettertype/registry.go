package lettertype

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/domain/numbering"
)

// Registry holds all compiled letter types, keyed by code. Built once at
// startup; configuration errors are fatal there, never per-request.
type Registry struct {
	types map[string]*LetterType
	order []string
}

// NewRegistry compiles definitions into a registry. Template and rule
// compilation errors surface as InvalidFormatTemplate / validation errors.
func NewRegistry(defs []Definition) (*Registry, error) {
	celEnv, err := cel.NewEnv(
		cel.Variable("payload", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("build cel environment: %w", err)
	}

	r := &Registry{types: make(map[string]*LetterType, len(defs))}
	for _, def := range defs {
		if def.Code == "" {
			return nil, apperror.NewValidation("letter type code is required")
		}
		if _, dup := r.types[def.Code]; dup {
			return nil, apperror.NewDuplicate("letter type", "code", def.Code)
		}

		reset := numbering.ResetPeriod(def.Reset)
		if def.Reset == "" {
			reset = numbering.ResetYearly
		}

		tmpl, err := numbering.ParseTemplate(def.Code, def.DeskCode, def.Pattern, reset)
		if err != nil {
			return nil, err
		}

		fee := decimal.Zero
		if def.Fee != "" {
			fee, err = decimal.NewFromString(def.Fee)
			if err != nil || fee.IsNegative() {
				return nil, apperror.NewValidation("invalid fee").
					WithDetail("letter_type", def.Code).
					WithDetail("fee", def.Fee)
			}
		}

		lt := &LetterType{
			Code:     def.Code,
			Name:     def.Name,
			DeskCode: def.DeskCode,
			Reset:    reset,
			Fee:      fee,
			template: tmpl,
			ruleSrc:  def.Rule,
		}

		if def.Rule != "" {
			ast, iss := celEnv.Compile(def.Rule)
			if iss != nil && iss.Err() != nil {
				return nil, apperror.NewValidation("invalid payload rule").
					WithDetail("letter_type", def.Code).
					WithDetail("error", iss.Err().Error())
			}
			prg, err := celEnv.Program(ast)
			if err != nil {
				return nil, apperror.NewValidation("invalid payload rule").
					WithDetail("letter_type", def.Code).
					WithDetail("error", err.Error())
			}
			lt.rule = prg
		}

		r.types[def.Code] = lt
		r.order = append(r.order, def.Code)
	}
	return r, nil
}

// Get returns the letter type for a code.
func (r *Registry) Get(code string) (*LetterType, bool) {
	lt, ok := r.types[code]
	return lt, ok
}

// All returns letter types in configuration order.
func (r *Registry) All() []*LetterType {
	out := make([]*LetterType, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.types[code])
	}
	return out
}

// TemplateSet builds the numbering template set for all registered types.
func (r *Registry) TemplateSet() *numbering.TemplateSet {
	templates := make([]*numbering.Template, 0, len(r.order))
	for _, code := range r.order {
		templates = append(templates, r.types[code].template)
	}
	return numbering.NewTemplateSet(templates...)
}

// DefaultDefinitions returns the built-in desa letter types, used when the
// configuration file does not override them.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Code:     "surat-keterangan-umum",
			Name:     "Surat Keterangan Umum",
			DeskCode: "01",
		},
		{
			Code:     "surat-pengantar-umum",
			Name:     "Surat Pengantar Umum",
			DeskCode: "02",
		},
		{
			Code:     "surat-keterangan-usaha",
			Name:     "Surat Keterangan Usaha",
			DeskCode: "03",
			Rule:     `"nama_usaha" in payload && payload["nama_usaha"] != ""`,
		},
		{
			Code:     "surat-keterangan-domisili",
			Name:     "Surat Keterangan Domisili",
			DeskCode: "04",
		},
		{
			Code:     "surat-pengantar-kepolisian",
			Name:     "Surat Pengantar Kepolisian (SKCK)",
			DeskCode: "05",
		},
		{
			Code:     "surat-izin-keramaian",
			Name:     "Surat Izin Keramaian",
			DeskCode: "06",
			Rule:     `"tanggal_acara" in payload && "jenis_acara" in payload`,
		},
		// Marriage bureaucracy forms share the N-series desk code.
		{
			Code:     "N1",
			Name:     "Surat Pengantar Nikah (N1)",
			DeskCode: "N1",
			Pattern:  "{kode}/{seq:3}/{romawi}/{tahun}",
		},
		{
			Code:     "N2",
			Name:     "Surat Keterangan Asal-Usul (N2)",
			DeskCode: "N2",
			Pattern:  "{kode}/{seq:3}/{romawi}/{tahun}",
		},
		{
			Code:     "N4",
			Name:     "Surat Keterangan Orang Tua (N4)",
			DeskCode: "N4",
			Pattern:  "{kode}/{seq:3}/{romawi}/{tahun}",
		},
	}
}
