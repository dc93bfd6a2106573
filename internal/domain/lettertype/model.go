// Package lettertype defines the catalog of official letter types the desa
// issues. Each type carries its numbering template, an optional
// administrative fee, and an optional payload validation rule.
package lettertype

import (
	"context"

	"github.com/google/cel-go/cel"
	"github.com/shopspring/decimal"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/domain/numbering"
)

// Definition is the raw configuration entry for one letter type.
type Definition struct {
	// Code identifies the type (e.g. "surat-keterangan-umum", "N1").
	Code string `mapstructure:"code"`

	// Name is the printed title of the document.
	Name string `mapstructure:"name"`

	// DeskCode is the classification code placed in the number ({kode}).
	DeskCode string `mapstructure:"desk_code"`

	// Pattern overrides the default number layout. Empty means
	// numbering.DefaultPattern.
	Pattern string `mapstructure:"pattern"`

	// Reset is the sequence reset period: year, month or never.
	Reset string `mapstructure:"reset"`

	// Fee is the administrative fee (biaya) in rupiah, "0" or empty for free.
	Fee string `mapstructure:"fee"`

	// Rule is an optional CEL expression over the form payload map; it must
	// evaluate to true for the submission to be accepted.
	Rule string `mapstructure:"rule"`
}

// LetterType is a compiled letter type definition.
type LetterType struct {
	Code     string
	Name     string
	DeskCode string
	Reset    numbering.ResetPeriod
	Fee      decimal.Decimal

	template *numbering.Template
	rule     cel.Program
	ruleSrc  string
}

// Template returns the compiled number template.
func (lt *LetterType) Template() *numbering.Template {
	return lt.template
}

// HasRule reports whether a payload validation rule is configured.
func (lt *LetterType) HasRule() bool {
	return lt.rule != nil
}

// ValidatePayload evaluates the configured CEL rule against the form payload.
// Types without a rule accept any payload.
func (lt *LetterType) ValidatePayload(ctx context.Context, payload map[string]any) error {
	if lt.rule == nil {
		return nil
	}
	if payload == nil {
		payload = map[string]any{}
	}

	out, _, err := lt.rule.Eval(map[string]any{"payload": payload})
	if err != nil {
		return apperror.NewValidation("payload does not satisfy letter type rule").
			WithDetail("letter_type", lt.Code).
			WithDetail("rule", lt.ruleSrc).
			WithDetail("error", err.Error())
	}
	ok, isBool := out.Value().(bool)
	if !isBool || !ok {
		return apperror.NewValidation("payload does not satisfy letter type rule").
			WithDetail("letter_type", lt.Code).
			WithDetail("rule", lt.ruleSrc)
	}
	return nil
}
