package numbering

import (
	"context"
	"fmt"
	"sync"
	"time"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
)

// In-memory fakes mirroring the PostgreSQL implementations closely enough for
// protocol-level tests: the sequence store is a mutex-guarded counter map and
// the ledger enforces conditional transitions the way the SQL UPDATE does.

type memSequenceStore struct {
	mu       sync.Mutex
	counters map[string]int64
	failing  bool
}

func newMemSequenceStore() *memSequenceStore {
	return &memSequenceStore{counters: make(map[string]int64)}
}

func (s *memSequenceStore) key(letterType string, p Period) string {
	return letterType + "|" + p.Key
}

func (s *memSequenceStore) NextValue(ctx context.Context, letterType string, p Period) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return 0, fmt.Errorf("sequence store unreachable")
	}
	k := s.key(letterType, p)
	s.counters[k]++
	return s.counters[k], nil
}

func (s *memSequenceStore) RaiseTo(ctx context.Context, letterType string, p Period, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return fmt.Errorf("sequence store unreachable")
	}
	k := s.key(letterType, p)
	if s.counters[k] < value {
		s.counters[k] = value
	}
	return nil
}

func (s *memSequenceStore) SetValue(ctx context.Context, letterType string, p Period, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[s.key(letterType, p)] = value
	return nil
}

type memReservationRepo struct {
	mu   sync.Mutex
	rows map[id.ID]*Reservation

	// afterTakenCheck, when set, runs after SequenceTaken returns and before
	// the caller proceeds. Tests use it to line up interleavings.
	afterTakenCheck func()
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{rows: make(map[id.ID]*Reservation)}
}

func (r *memReservationRepo) Create(ctx context.Context, res *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the partial unique index over live rows.
	for _, existing := range r.rows {
		if existing.LetterType == res.LetterType && existing.PeriodKey == res.PeriodKey &&
			existing.SequenceValue == res.SequenceValue && existing.Status != StatusReleased {
			return apperror.NewDuplicateManualNumber(res.LetterType, res.SequenceValue)
		}
	}
	cp := *res
	r.rows[res.ID] = &cp
	return nil
}

func (r *memReservationRepo) GetByID(ctx context.Context, reservationID id.ID) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[reservationID]
	if !ok {
		return nil, apperror.NewNotFound("reservation", reservationID.String())
	}
	cp := *res
	return &cp, nil
}

func (r *memReservationRepo) TransitionStatus(ctx context.Context, reservationID id.ID, from, to Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[reservationID]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	switch to {
	case StatusConfirmed:
		t := at
		res.ConfirmedAt = &t
	case StatusReleased:
		t := at
		res.ReleasedAt = &t
	}
	return true, nil
}

func (r *memReservationRepo) SequenceTaken(ctx context.Context, letterType, periodKey string, seq int64) (bool, error) {
	r.mu.Lock()
	taken := false
	for _, res := range r.rows {
		if res.LetterType == letterType && res.PeriodKey == periodKey &&
			res.SequenceValue == seq && res.Status != StatusReleased {
			taken = true
			break
		}
	}
	r.mu.Unlock()
	if r.afterTakenCheck != nil {
		r.afterTakenCheck()
	}
	return taken, nil
}

func (r *memReservationRepo) ReleaseExpired(ctx context.Context, cutoff time.Time, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, res := range r.rows {
		if res.Status == StatusPending && res.CreatedAt.Before(cutoff) {
			res.Status = StatusReleased
			t := at
			res.ReleasedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *memReservationRepo) List(ctx context.Context, filter ListFilter) ([]*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Reservation
	for _, res := range r.rows {
		if filter.LetterType != "" && res.LetterType != filter.LetterType {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	return out, nil
}

// nopTxManager runs the function directly; the fakes are already atomic.
type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
