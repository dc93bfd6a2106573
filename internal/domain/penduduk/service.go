package penduduk

import (
	"context"
	"time"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByNIK looks up one resident by identity number. The lookup powers the
// letter form's autofill, so an unknown NIK is a plain not-found, not an error
// worth logging.
func (s *Service) GetByNIK(ctx context.Context, nik string) (*Penduduk, error) {
	if !ValidNIK(nik) {
		return nil, apperror.NewValidation("nik must be 16 digits").WithDetail("nik", nik)
	}
	return s.repo.GetByNIK(ctx, nik)
}

func (s *Service) GetByID(ctx context.Context, pid id.ID) (*Penduduk, error) {
	return s.repo.GetByID(ctx, pid)
}

func (s *Service) Create(ctx context.Context, p *Penduduk) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if existing, err := s.repo.GetByNIK(ctx, p.NIK); err == nil && existing != nil {
		return apperror.NewDuplicate("penduduk", "nik", p.NIK)
	} else if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	now := time.Now()
	p.ID = id.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.log.WithContext(ctx).Infow("penduduk created", "nik", p.NIK)
	return nil
}

func (s *Service) Update(ctx context.Context, p *Penduduk) error {
	if err := p.Validate(); err != nil {
		return err
	}
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.NIK != p.NIK {
		return apperror.NewValidation("nik cannot be changed")
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now()
	return s.repo.Update(ctx, p)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Penduduk, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.List(ctx, filter)
}
