package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/surat"
)

// suratRow mirrors surat.Surat with the payload as raw JSON for scanning.
type suratRow struct {
	surat.Surat
	PayloadRaw []byte `db:"payload"`
}

var suratCols = []string{
	"id", "letter_type", "pemohon_nik", "pemohon_nama", "keperluan",
	"payload", "reservation_id", "nomor_surat", "biaya", "status",
	"created_by", "created_at", "updated_at", "printed_at",
}

// SuratRepo implements surat.Repository.
type SuratRepo struct {
	txManager *TxManager
}

// NewSuratRepo creates a new letter entry repository.
func NewSuratRepo(txManager *TxManager) *SuratRepo {
	return &SuratRepo{txManager: txManager}
}

// Ensure interface compliance
var _ surat.Repository = (*SuratRepo)(nil)

func (r *SuratRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func marshalPayload(s *surat.Surat) ([]byte, error) {
	if s.Payload == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return raw, nil
}

func (row *suratRow) toEntity() (*surat.Surat, error) {
	s := row.Surat
	if len(row.PayloadRaw) > 0 {
		if err := json.Unmarshal(row.PayloadRaw, &s.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return &s, nil
}

// Create inserts a letter entry.
func (r *SuratRepo) Create(ctx context.Context, s *surat.Surat) error {
	payload, err := marshalPayload(s)
	if err != nil {
		return err
	}

	data := StructToMap(s)
	filtered := make(map[string]any, len(suratCols))
	for _, col := range suratCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	filtered["payload"] = payload

	sql, args, err := r.builder().
		Insert("surat").
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert surat: %w", err)
	}
	return nil
}

// Update rewrites a letter entry.
func (r *SuratRepo) Update(ctx context.Context, s *surat.Surat) error {
	payload, err := marshalPayload(s)
	if err != nil {
		return err
	}

	data := StructToMap(s)
	filtered := make(map[string]any, len(suratCols))
	for _, col := range suratCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	filtered["payload"] = payload

	sql, args, err := r.builder().
		Update("surat").
		SetMap(filtered).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update surat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("surat", s.ID.String())
	}
	return nil
}

// GetByID retrieves a letter entry by ID.
func (r *SuratRepo) GetByID(ctx context.Context, sid id.ID) (*surat.Surat, error) {
	sql, args, err := r.builder().
		Select(suratCols...).
		From("surat").
		Where(squirrel.Eq{"id": sid}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row suratRow
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("surat", sid.String())
		}
		return nil, fmt.Errorf("get surat: %w", err)
	}
	return row.toEntity()
}

// Delete removes a letter entry. Only drafts are ever deleted; printed
// entries stay as the permanent ledger.
func (r *SuratRepo) Delete(ctx context.Context, sid id.ID) error {
	q := r.txManager.GetQuerier(ctx)
	tag, err := q.Exec(ctx, `DELETE FROM surat WHERE id = $1`, sid)
	if err != nil {
		return fmt.Errorf("delete surat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("surat", sid.String())
	}
	return nil
}

// List returns letter entries, newest first.
func (r *SuratRepo) List(ctx context.Context, filter surat.ListFilter) ([]*surat.Surat, error) {
	qb := r.builder().
		Select(suratCols...).
		From("surat").
		OrderBy("created_at DESC")

	if filter.LetterType != "" {
		qb = qb.Where(squirrel.Eq{"letter_type": filter.LetterType})
	}
	if filter.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.NIK != "" {
		qb = qb.Where(squirrel.Eq{"pemohon_nik": filter.NIK})
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

	var rows []*suratRow
	q := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list surat: %w", err)
	}

	out := make([]*surat.Surat, 0, len(rows))
	for _, row := range rows {
		s, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
