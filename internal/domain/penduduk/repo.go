package penduduk

import (
	"context"

	"suratdesa/internal/core/id"
)

// ListFilter narrows List results.
type ListFilter struct {
	Search string // matches nama or nik prefix
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Penduduk) error
	Update(ctx context.Context, p *Penduduk) error
	GetByID(ctx context.Context, pid id.ID) (*Penduduk, error)
	GetByNIK(ctx context.Context, nik string) (*Penduduk, error)
	List(ctx context.Context, filter ListFilter) ([]*Penduduk, error)
}
