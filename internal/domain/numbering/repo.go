package numbering

import (
	"context"
	"time"

	"suratdesa/internal/core/id"
)

// SequenceStore hands out the next integer for a (letterType, period) pair,
// exactly once per call, even under concurrent callers. Implementations must
// perform the increment as a single atomic read-modify-write at the storage
// layer; read-then-write in separate steps would duplicate numbers.
type SequenceStore interface {
	// NextValue atomically increments and returns the counter for the key,
	// creating it at 1 if absent.
	NextValue(ctx context.Context, letterType string, period Period) (int64, error)

	// RaiseTo lifts the counter to at least value, so automatic numbers
	// issued later never collide with a manually assigned one.
	RaiseTo(ctx context.Context, letterType string, period Period, value int64) error

	// SetValue overwrites the counter (migration/backfill only).
	SetValue(ctx context.Context, letterType string, period Period, value int64) error
}

// ReservationRepository persists reservations and enforces state transitions
// at the storage layer. TransitionStatus is the arbiter for concurrent
// confirm/release on the same id: only one conditional update can win.
type ReservationRepository interface {
	Create(ctx context.Context, r *Reservation) error

	GetByID(ctx context.Context, reservationID id.ID) (*Reservation, error)

	// TransitionStatus updates status only when the row currently holds from.
	// Returns false when the row was absent or already in another state.
	TransitionStatus(ctx context.Context, reservationID id.ID, from, to Status, at time.Time) (bool, error)

	// SequenceTaken reports whether a Pending or Confirmed reservation already
	// holds the sequence value for the letter type and period. Released
	// reservations do not count: their numbers are burned, not reissued.
	SequenceTaken(ctx context.Context, letterType, periodKey string, seq int64) (bool, error)

	// ReleaseExpired releases Pending reservations created before the cutoff
	// and returns how many rows changed.
	ReleaseExpired(ctx context.Context, cutoff time.Time, at time.Time) (int64, error)

	// List returns reservations filtered by letter type and/or status,
	// newest first.
	List(ctx context.Context, filter ListFilter) ([]*Reservation, error)
}

// ListFilter narrows reservation listings.
type ListFilter struct {
	LetterType string
	Status     Status
	Limit      int
	Offset     int
}
