package surat

import (
	"time"

	"github.com/shopspring/decimal"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
)

// Status tracks a letter entry through its lifecycle. Draft entries hold a
// pending number reservation; printing confirms the number and freezes the
// entry.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPrinted Status = "printed"
)

// Surat is one letter entry in the service desk ledger. The payload holds
// per-letter-type fields (business name, event date, ...) as free-form JSON
// validated by the letter type's rule.
type Surat struct {
	ID            id.ID           `db:"id" json:"id"`
	LetterType    string          `db:"letter_type" json:"letter_type"`
	PemohonNIK    string          `db:"pemohon_nik" json:"pemohon_nik"`
	PemohonNama   string          `db:"pemohon_nama" json:"pemohon_nama"`
	Keperluan     string          `db:"keperluan" json:"keperluan"`
	Payload       map[string]any  `db:"-" json:"payload"`
	ReservationID id.ID           `db:"reservation_id" json:"reservation_id"`
	NomorSurat    string          `db:"nomor_surat" json:"nomor_surat"`
	Biaya         decimal.Decimal `db:"biaya" json:"biaya"`
	Status        Status          `db:"status" json:"status"`
	CreatedBy     string          `db:"created_by" json:"created_by"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	PrintedAt     *time.Time      `db:"printed_at" json:"printed_at,omitempty"`
}

// Validate checks required fields. Letter type existence and payload rules
// are the service's job; this only guards structural basics.
func (s *Surat) Validate() error {
	if s.LetterType == "" {
		return apperror.NewValidation("letter_type is required")
	}
	if s.PemohonNIK == "" {
		return apperror.NewValidation("pemohon_nik is required")
	}
	return nil
}
