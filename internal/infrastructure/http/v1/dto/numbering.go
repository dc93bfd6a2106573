package dto

import (
	"time"

	"suratdesa/internal/domain/numbering"
)

// ReserveNumberRequest asks for the next number of a letter type, or a
// specific manual sequence value. The keys follow the desk vocabulary:
// jenisSurat for the letter type, nomorUrutManual for the override.
type ReserveNumberRequest struct {
	LetterType string `json:"jenisSurat" binding:"required"`
	ManualSeq  *int64 `json:"nomorUrutManual" binding:"omitempty,min=1"`
}

// ReservationListRequest filters the reservation listing.
type ReservationListRequest struct {
	PaginationRequest
	LetterType string `form:"jenisSurat"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed released"`
}

// ToFilter converts to domain filter.
func (r *ReservationListRequest) ToFilter() numbering.ListFilter {
	r.Defaults()
	return numbering.ListFilter{
		LetterType: r.LetterType,
		Status:     numbering.Status(r.Status),
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// ReservationResponse represents a number reservation.
type ReservationResponse struct {
	ID              string     `json:"id"`
	LetterType      string     `json:"jenisSurat"`
	PeriodKey       string     `json:"periode"`
	SequenceValue   int64      `json:"sequenceValue"`
	FormattedNumber string     `json:"nomorSurat"`
	Status          string     `json:"status"`
	Manual          bool       `json:"manual"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	ReleasedAt      *time.Time `json:"releasedAt,omitempty"`
}

// FromReservation creates response from domain reservation.
func FromReservation(r *numbering.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:              r.ID.String(),
		LetterType:      r.LetterType,
		PeriodKey:       r.PeriodKey,
		SequenceValue:   r.SequenceValue,
		FormattedNumber: r.FormattedNumber,
		Status:          string(r.Status),
		Manual:          r.Manual,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		ConfirmedAt:     r.ConfirmedAt,
		ReleasedAt:      r.ReleasedAt,
	}
}

// FromReservations maps a reservation slice.
func FromReservations(items []*numbering.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(items))
	for i, r := range items {
		out[i] = FromReservation(r)
	}
	return out
}
