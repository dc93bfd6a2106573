package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/numbering"
)

var reservationCols = ExtractDBColumns[numbering.Reservation]()

// ReservationRepo implements numbering.ReservationRepository.
// Status transitions are conditional updates; under concurrent confirm and
// release on the same row, exactly one caller sees RowsAffected == 1.
type ReservationRepo struct {
	txManager *TxManager
}

// NewReservationRepo creates a new reservation repository.
func NewReservationRepo(txManager *TxManager) *ReservationRepo {
	return &ReservationRepo{txManager: txManager}
}

// Ensure interface compliance
var _ numbering.ReservationRepository = (*ReservationRepo)(nil)

func (r *ReservationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a reservation.
func (r *ReservationRepo) Create(ctx context.Context, res *numbering.Reservation) error {
	data := StructToMap(res)
	filtered := make(map[string]any, len(reservationCols))
	for _, col := range reservationCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("number_reservations").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		// The partial unique index on (letter_type, period_key,
		// sequence_value) over live rows is the arbiter when two
		// requests race for the same value.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicateManualNumber(res.LetterType, res.SequenceValue)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by ID.
func (r *ReservationRepo) GetByID(ctx context.Context, reservationID id.ID) (*numbering.Reservation, error) {
	sql, args, err := r.builder().
		Select(reservationCols...).
		From("number_reservations").
		Where(squirrel.Eq{"id": reservationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var res numbering.Reservation
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &res, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("reservation", reservationID.String())
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// TransitionStatus updates status only when the row currently holds from.
func (r *ReservationRepo) TransitionStatus(ctx context.Context, reservationID id.ID, from, to numbering.Status, at time.Time) (bool, error) {
	var stampCol string
	switch to {
	case numbering.StatusConfirmed:
		stampCol = "confirmed_at"
	case numbering.StatusReleased:
		stampCol = "released_at"
	default:
		return false, fmt.Errorf("transition to %q not allowed", to)
	}

	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, fmt.Sprintf(`
		UPDATE number_reservations
		SET status = $1, %s = $2
		WHERE id = $3 AND status = $4
	`, stampCol), to, at, reservationID, from)
	if err != nil {
		return false, fmt.Errorf("transition reservation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SequenceTaken reports whether a live reservation already holds the value.
func (r *ReservationRepo) SequenceTaken(ctx context.Context, letterType, periodKey string, seq int64) (bool, error) {
	q := r.txManager.GetQuerier(ctx)

	var taken bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM number_reservations
			WHERE letter_type = $1 AND period_key = $2 AND sequence_value = $3
			  AND status IN ('pending', 'confirmed')
		)
	`, letterType, periodKey, seq).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check sequence taken: %w", err)
	}
	return taken, nil
}

// ReleaseExpired releases Pending reservations created before the cutoff.
func (r *ReservationRepo) ReleaseExpired(ctx context.Context, cutoff time.Time, at time.Time) (int64, error) {
	q := r.txManager.GetQuerier(ctx)

	tag, err := q.Exec(ctx, `
		UPDATE number_reservations
		SET status = 'released', released_at = $1
		WHERE status = 'pending' AND created_at < $2
	`, at, cutoff)
	if err != nil {
		return 0, fmt.Errorf("release expired reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns reservations filtered by letter type and/or status, newest first.
func (r *ReservationRepo) List(ctx context.Context, filter numbering.ListFilter) ([]*numbering.Reservation, error) {
	qb := r.builder().
		Select(reservationCols...).
		From("number_reservations").
		OrderBy("created_at DESC")

	if filter.LetterType != "" {
		qb = qb.Where(squirrel.Eq{"letter_type": filter.LetterType})
	}
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*numbering.Reservation
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}
