package surat

import (
	"context"

	"suratdesa/internal/core/id"
)

// ListFilter narrows List results.
type ListFilter struct {
	LetterType string
	Status     Status
	NIK        string
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, s *Surat) error
	Update(ctx context.Context, s *Surat) error
	GetByID(ctx context.Context, sid id.ID) (*Surat, error)
	Delete(ctx context.Context, sid id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Surat, error)
}
