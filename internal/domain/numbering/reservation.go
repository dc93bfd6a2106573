package numbering

import (
	"context"
	"time"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
)

// Status is the reservation lifecycle state.
//
// Pending --confirm--> Confirmed (terminal)
// Pending --release--> Released  (terminal)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusReleased  Status = "released"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusReleased
}

// Reservation is a provisional claim on a sequence number, created when a user
// previews a letter. It becomes the permanent record of issuance on confirm.
// Confirmed and Released reservations are never mutated.
type Reservation struct {
	ID              id.ID      `db:"id" json:"id"`
	LetterType      string     `db:"letter_type" json:"letterType"`
	PeriodKey       string     `db:"period_key" json:"periodKey"`
	SequenceValue   int64      `db:"sequence_value" json:"sequenceValue"`
	FormattedNumber string     `db:"formatted_number" json:"formattedNumber"`
	Status          Status     `db:"status" json:"status"`
	Manual          bool       `db:"manual" json:"manual"`
	CreatedBy       string     `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	ConfirmedAt     *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	ReleasedAt      *time.Time `db:"released_at" json:"releasedAt,omitempty"`
}

// NewReservation creates a Pending reservation for an issued sequence value.
func NewReservation(letterType string, period Period, seq int64, formatted string, manual bool) *Reservation {
	return &Reservation{
		ID:              id.New(),
		LetterType:      letterType,
		PeriodKey:       period.Key,
		SequenceValue:   seq,
		FormattedNumber: formatted,
		Status:          StatusPending,
		Manual:          manual,
		CreatedAt:       time.Now().UTC(),
	}
}

// Validate checks entity invariants.
func (r *Reservation) Validate(ctx context.Context) error {
	if r.LetterType == "" {
		return apperror.NewValidation("letter type is required").
			WithDetail("field", "letterType")
	}
	if r.PeriodKey == "" {
		return apperror.NewValidation("period key is required").
			WithDetail("field", "periodKey")
	}
	if r.SequenceValue < 1 {
		return apperror.NewValidation("sequence value must be positive").
			WithDetail("field", "sequenceValue")
	}
	if r.FormattedNumber == "" {
		return apperror.NewValidation("formatted number is required").
			WithDetail("field", "formattedNumber")
	}
	return nil
}

// MarkConfirmed applies the Pending -> Confirmed transition in memory.
func (r *Reservation) MarkConfirmed(at time.Time) {
	r.Status = StatusConfirmed
	r.ConfirmedAt = &at
}

// MarkReleased applies the Pending -> Released transition in memory.
func (r *Reservation) MarkReleased(at time.Time) {
	r.Status = StatusReleased
	r.ReleasedAt = &at
}
