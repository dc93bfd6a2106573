package postgres

import (
	"context"
	"fmt"

	"suratdesa/internal/domain/numbering"
)

// SequenceRepo implements numbering.SequenceStore on the sys_sequences table.
// The increment is a single UPSERT so two concurrent callers can never read
// the same value.
type SequenceRepo struct {
	txManager *TxManager
}

// NewSequenceRepo creates a new sequence repository.
func NewSequenceRepo(txManager *TxManager) *SequenceRepo {
	return &SequenceRepo{txManager: txManager}
}

// Ensure interface compliance
var _ numbering.SequenceStore = (*SequenceRepo)(nil)

// NextValue atomically increments and returns the counter for the key.
func (r *SequenceRepo) NextValue(ctx context.Context, letterType string, period numbering.Period) (int64, error) {
	q := r.txManager.GetQuerier(ctx)

	var num int64
	err := q.QueryRow(ctx, `
		INSERT INTO sys_sequences (letter_type, period_key, current_val)
		VALUES ($1, $2, 1)
		ON CONFLICT (letter_type, period_key)
		DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, letterType, period.Key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	return num, nil
}

// RaiseTo lifts the counter to at least value. GREATEST keeps the counter
// monotone when the manual value is below what was already issued.
func (r *SequenceRepo) RaiseTo(ctx context.Context, letterType string, period numbering.Period, value int64) error {
	q := r.txManager.GetQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO sys_sequences (letter_type, period_key, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (letter_type, period_key)
		DO UPDATE SET current_val = GREATEST(sys_sequences.current_val, $3)
	`, letterType, period.Key, value)
	if err != nil {
		return fmt.Errorf("raise sequence value: %w", err)
	}
	return nil
}

// SetValue overwrites the counter (migration/backfill only).
func (r *SequenceRepo) SetValue(ctx context.Context, letterType string, period numbering.Period, value int64) error {
	q := r.txManager.GetQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO sys_sequences (letter_type, period_key, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (letter_type, period_key)
		DO UPDATE SET current_val = $3
	`, letterType, period.Key, value)
	if err != nil {
		return fmt.Errorf("set sequence value: %w", err)
	}
	return nil
}
