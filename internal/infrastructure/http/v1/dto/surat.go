package dto

import (
	"time"

	"suratdesa/internal/domain/surat"
)

// CreateSuratRequest creates a letter draft. The official number is
// reserved immediately; it becomes final on print.
type CreateSuratRequest struct {
	LetterType string         `json:"letterType" binding:"required"`
	PemohonNIK string         `json:"pemohonNik" binding:"required,len=16"`
	Keperluan  string         `json:"keperluan"`
	Payload    map[string]any `json:"payload"`
	ManualSeq  *int64         `json:"manualSeq" binding:"omitempty,min=1"`
}

// ToEntity converts to domain entity.
func (r *CreateSuratRequest) ToEntity() *surat.Surat {
	return &surat.Surat{
		LetterType: r.LetterType,
		PemohonNIK: r.PemohonNIK,
		Keperluan:  r.Keperluan,
		Payload:    r.Payload,
	}
}

// UpdateSuratRequest edits a draft letter. Letter type and number are fixed
// at creation and cannot change here.
type UpdateSuratRequest struct {
	PemohonNIK string         `json:"pemohonNik" binding:"omitempty,len=16"`
	Keperluan  string         `json:"keperluan"`
	Payload    map[string]any `json:"payload"`
}

// SuratListRequest filters the letter listing.
type SuratListRequest struct {
	PaginationRequest
	LetterType string `form:"letterType"`
	Status     string `form:"status" binding:"omitempty,oneof=draft printed"`
	NIK        string `form:"nik"`
}

// ToFilter converts to domain filter.
func (r *SuratListRequest) ToFilter() surat.ListFilter {
	r.Defaults()
	return surat.ListFilter{
		LetterType: r.LetterType,
		Status:     surat.Status(r.Status),
		NIK:        r.NIK,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// SuratResponse represents a letter in API responses.
type SuratResponse struct {
	ID            string         `json:"id"`
	LetterType    string         `json:"letterType"`
	PemohonNIK    string         `json:"pemohonNik"`
	PemohonNama   string         `json:"pemohonNama"`
	Keperluan     string         `json:"keperluan,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
	ReservationID string         `json:"reservationId"`
	NomorSurat    string         `json:"nomorSurat"`
	Biaya         string         `json:"biaya"`
	Status        string         `json:"status"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	PrintedAt     *time.Time     `json:"printedAt,omitempty"`
}

// FromSurat creates response from domain entity.
func FromSurat(s *surat.Surat) *SuratResponse {
	return &SuratResponse{
		ID:            s.ID.String(),
		LetterType:    s.LetterType,
		PemohonNIK:    s.PemohonNIK,
		PemohonNama:   s.PemohonNama,
		Keperluan:     s.Keperluan,
		Payload:       s.Payload,
		ReservationID: s.ReservationID.String(),
		NomorSurat:    s.NomorSurat,
		Biaya:         s.Biaya.StringFixed(2),
		Status:        string(s.Status),
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		PrintedAt:     s.PrintedAt,
	}
}

// FromSuratList maps a letter slice.
func FromSuratList(items []*surat.Surat) []*SuratResponse {
	out := make([]*SuratResponse, len(items))
	for i, s := range items {
		out[i] = FromSurat(s)
	}
	return out
}
