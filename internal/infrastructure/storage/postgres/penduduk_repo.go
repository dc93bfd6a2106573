package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/penduduk"
)

var pendudukCols = ExtractDBColumns[penduduk.Penduduk]()

// PendudukRepo implements penduduk.Repository.
type PendudukRepo struct {
	txManager *TxManager
}

// NewPendudukRepo creates a new resident repository.
func NewPendudukRepo(txManager *TxManager) *PendudukRepo {
	return &PendudukRepo{txManager: txManager}
}

// Ensure interface compliance
var _ penduduk.Repository = (*PendudukRepo)(nil)

func (r *PendudukRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a resident record.
func (r *PendudukRepo) Create(ctx context.Context, p *penduduk.Penduduk) error {
	data := StructToMap(p)
	filtered := make(map[string]any, len(pendudukCols))
	for _, col := range pendudukCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert("penduduk").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert penduduk: %w", err)
	}
	return nil
}

// Update rewrites a resident record. NIK is immutable.
func (r *PendudukRepo) Update(ctx context.Context, p *penduduk.Penduduk) error {
	data := StructToMap(p)
	filtered := make(map[string]any, len(pendudukCols))
	for _, col := range pendudukCols {
		if col == "id" || col == "nik" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.builder().
		Update("penduduk").
		SetMap(filtered).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update penduduk: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("penduduk", p.ID.String())
	}
	return nil
}

// GetByID retrieves a resident by ID.
func (r *PendudukRepo) GetByID(ctx context.Context, pid id.ID) (*penduduk.Penduduk, error) {
	return r.getOne(ctx, squirrel.Eq{"id": pid}, pid.String())
}

// GetByNIK retrieves a resident by identity number.
func (r *PendudukRepo) GetByNIK(ctx context.Context, nik string) (*penduduk.Penduduk, error) {
	return r.getOne(ctx, squirrel.Eq{"nik": nik}, nik)
}

func (r *PendudukRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*penduduk.Penduduk, error) {
	sql, args, err := r.builder().
		Select(pendudukCols...).
		From("penduduk").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p penduduk.Penduduk
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("penduduk", key)
		}
		return nil, fmt.Errorf("get penduduk: %w", err)
	}
	return &p, nil
}

// List returns residents ordered by name.
func (r *PendudukRepo) List(ctx context.Context, filter penduduk.ListFilter) ([]*penduduk.Penduduk, error) {
	qb := r.builder().
		Select(pendudukCols...).
		From("penduduk").
		OrderBy("nama ASC")

	if filter.Search != "" {
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"nama": "%" + filter.Search + "%"},
			squirrel.Like{"nik": filter.Search + "%"},
		})
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

	var out []*penduduk.Penduduk
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list penduduk: %w", err)
	}
	return out, nil
}
