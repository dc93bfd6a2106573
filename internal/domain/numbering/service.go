package numbering

import (
	"context"
	"fmt"
	"time"

	"suratdesa/internal/core/apperror"
	appctx "suratdesa/internal/core/context"
	"suratdesa/internal/core/id"
	"suratdesa/internal/core/tx"
	"suratdesa/pkg/logger"
)

// AuditSink records issued-number lifecycle events. Implementations live in
// the infrastructure layer; a nil sink disables auditing.
type AuditSink interface {
	RecordReservation(ctx context.Context, action string, r *Reservation) error
}

// Service orchestrates the reserve-then-confirm protocol over the sequence
// store and the reservation ledger.
//
// Every call to RequestNumber creates a fresh Pending reservation, even for
// the same logical draft: preview attempts are disposable, and only the one
// the user confirms by printing becomes permanent. Abandoned sequence values
// are burned, never reissued.
type Service struct {
	sequences    SequenceStore
	reservations ReservationRepository
	templates    *TemplateSet
	txManager    tx.Manager
	audit        AuditSink

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates the numbering service.
func NewService(
	sequences SequenceStore,
	reservations ReservationRepository,
	templates *TemplateSet,
	txManager tx.Manager,
	audit AuditSink,
) *Service {
	return &Service{
		sequences:    sequences,
		reservations: reservations,
		templates:    templates,
		txManager:    txManager,
		audit:        audit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Templates exposes the compiled template set (read-only).
func (s *Service) Templates() *TemplateSet {
	return s.templates
}

// RequestNumber reserves the next number for a letter type and returns a
// Pending reservation. When manualSeq is set, the operator-supplied value is
// used instead of the counter; a collision with a live reservation for the
// same letter type and period is rejected outright, with no auto-increment
// fallback.
func (s *Service) RequestNumber(ctx context.Context, letterType string, manualSeq *int64) (*Reservation, error) {
	tmpl, ok := s.templates.Get(letterType)
	if !ok {
		return nil, apperror.NewValidation("unknown letter type").
			WithDetail("field", "jenisSurat").
			WithDetail("value", letterType)
	}

	period := PeriodFor(tmpl.Reset(), s.now())

	var res *Reservation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var seq int64
		switch {
		case manualSeq != nil:
			if *manualSeq < 1 {
				return apperror.NewValidation("manual number must be positive").
					WithDetail("field", "nomorUrutManual")
			}
			taken, err := s.reservations.SequenceTaken(ctx, letterType, period.Key, *manualSeq)
			if err != nil {
				return apperror.NewStoreUnavailable(err)
			}
			if taken {
				return apperror.NewDuplicateManualNumber(letterType, *manualSeq)
			}
			seq = *manualSeq
			// Future automatic numbers must skip past the manual one.
			if err := s.sequences.RaiseTo(ctx, letterType, period, seq); err != nil {
				return apperror.NewStoreUnavailable(err)
			}
		default:
			var err error
			seq, err = s.sequences.NextValue(ctx, letterType, period)
			if err != nil {
				return apperror.NewStoreUnavailable(err)
			}
		}

		res = NewReservation(letterType, period, seq, tmpl.Render(seq, period), manualSeq != nil)
		res.CreatedBy = appctx.GetUserID(ctx)
		if err := res.Validate(ctx); err != nil {
			return err
		}
		if err := s.reservations.Create(ctx, res); err != nil {
			// Two manual requests can both pass the SequenceTaken
			// look-ahead; the store's unique constraint decides the
			// loser, and the typed error must reach the caller.
			if apperror.IsCode(err, apperror.CodeDuplicateManualNumber) {
				return err
			}
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, "reserve", res)
	logger.Debug(ctx, "number reserved",
		"reservation_id", res.ID,
		"letter_type", letterType,
		"number", res.FormattedNumber)
	return res, nil
}

// ConfirmNumber makes a reservation permanent. Idempotent: confirming an
// already-Confirmed reservation returns the existing record unchanged.
// Confirming a Released reservation fails; the caller must request a fresh
// number before printing.
func (s *Service) ConfirmNumber(ctx context.Context, reservationID id.ID) (*Reservation, error) {
	// Two attempts: if the conditional update loses a race, the second pass
	// observes the terminal state and resolves deterministically.
	for attempt := 0; attempt < 2; attempt++ {
		res, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return nil, err
		}

		switch res.Status {
		case StatusConfirmed:
			return res, nil
		case StatusReleased:
			return nil, apperror.NewAlreadyReleased(reservationID.String())
		}

		at := s.now()
		ok, err := s.reservations.TransitionStatus(ctx, reservationID, StatusPending, StatusConfirmed, at)
		if err != nil {
			return nil, apperror.NewStoreUnavailable(err)
		}
		if ok {
			res.MarkConfirmed(at)
			s.record(ctx, "confirm", res)
			logger.Info(ctx, "number confirmed",
				"reservation_id", res.ID,
				"letter_type", res.LetterType,
				"number", res.FormattedNumber)
			return res, nil
		}
		// Lost the race; loop re-reads the terminal state.
	}
	return nil, apperror.NewConflict("reservation state changed concurrently").
		WithDetail("reservation_id", reservationID.String())
}

// CancelNumber releases a Pending reservation when the user abandons the
// preview. No-op if the reservation is already Confirmed or Released.
func (s *Service) CancelNumber(ctx context.Context, reservationID id.ID) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Status.Terminal() {
		return nil
	}

	at := s.now()
	ok, err := s.reservations.TransitionStatus(ctx, reservationID, StatusPending, StatusReleased, at)
	if err != nil {
		return apperror.NewStoreUnavailable(err)
	}
	if ok {
		res.MarkReleased(at)
		s.record(ctx, "release", res)
		logger.Debug(ctx, "number released",
			"reservation_id", res.ID,
			"number", res.FormattedNumber)
	}
	// A concurrent confirm/release already settled the row; nothing to do.
	return nil
}

// GetReservation returns the reservation by id.
func (s *Service) GetReservation(ctx context.Context, reservationID id.ID) (*Reservation, error) {
	return s.reservations.GetByID(ctx, reservationID)
}

// ListReservations returns reservations for administrative review.
func (s *Service) ListReservations(ctx context.Context, filter ListFilter) ([]*Reservation, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.reservations.List(ctx, filter)
}

// ReleaseExpired releases Pending reservations older than ttl. Their sequence
// values stay burned; release only takes the rows out of the collision set for
// manual numbers and marks the abandonment explicitly.
func (s *Service) ReleaseExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	at := s.now()
	n, err := s.reservations.ReleaseExpired(ctx, at.Add(-ttl), at)
	if err != nil {
		return 0, apperror.NewStoreUnavailable(err)
	}
	if n > 0 {
		logger.Info(ctx, "expired reservations released", "count", n, "ttl", ttl)
	}
	return n, nil
}

func (s *Service) record(ctx context.Context, action string, r *Reservation) {
	if s.audit == nil || r == nil {
		return
	}
	if err := s.audit.RecordReservation(ctx, action, r); err != nil {
		logger.Warn(ctx, "audit write failed", "action", action, "error", err)
	}
}
