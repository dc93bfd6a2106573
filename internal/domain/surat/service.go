package surat

import (
	"context"
	"time"

	"suratdesa/internal/core/apperror"
	appctx "suratdesa/internal/core/context"
	"suratdesa/internal/core/id"
	"suratdesa/internal/core/tx"
	"suratdesa/internal/domain/lettertype"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/domain/penduduk"
	"suratdesa/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// NumberIssuer is the slice of the numbering service the letter ledger needs.
type NumberIssuer interface {
	RequestNumber(ctx context.Context, letterType string, manualSeq *int64) (*numbering.Reservation, error)
	ConfirmNumber(ctx context.Context, reservationID id.ID) (*numbering.Reservation, error)
	CancelNumber(ctx context.Context, reservationID id.ID) error
}

// ResidentLookup resolves applicant biodata by NIK.
type ResidentLookup interface {
	GetByNIK(ctx context.Context, nik string) (*penduduk.Penduduk, error)
}

type Service struct {
	repo      Repository
	numbers   NumberIssuer
	types     *lettertype.Registry
	residents ResidentLookup
	txManager tx.Manager
	log       *logger.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	numbers NumberIssuer,
	types *lettertype.Registry,
	residents ResidentLookup,
	txManager tx.Manager,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		numbers:   numbers,
		types:     types,
		residents: residents,
		txManager: txManager,
		log:       log,
		now:       time.Now,
	}
}

// Create registers a draft entry and reserves its official number in one
// transaction. The number shows up on the preview immediately but stays
// pending until Print confirms it.
func (s *Service) Create(ctx context.Context, entry *Surat, manualSeq *int64) (*Surat, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	lt, ok := s.types.Get(entry.LetterType)
	if !ok {
		return nil, apperror.NewValidation("unknown letter type").
			WithDetail("letter_type", entry.LetterType)
	}
	if err := lt.ValidatePayload(ctx, entry.Payload); err != nil {
		return nil, err
	}

	resident, err := s.residents.GetByNIK(ctx, entry.PemohonNIK)
	if err != nil {
		return nil, err
	}
	if entry.PemohonNama == "" {
		entry.PemohonNama = resident.Nama
	}

	now := s.now()
	entry.ID = id.New()
	entry.Biaya = lt.Fee
	entry.Status = StatusDraft
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.PrintedAt = nil
	if user := appctx.GetUser(ctx); user != nil {
		entry.CreatedBy = user.Username
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		res, err := s.numbers.RequestNumber(ctx, entry.LetterType, manualSeq)
		if err != nil {
			return err
		}
		entry.ReservationID = res.ID
		entry.NomorSurat = res.FormattedNumber
		return s.repo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Infow("surat created",
		"surat_id", entry.ID,
		"letter_type", entry.LetterType,
		"nomor", entry.NomorSurat,
	)
	return entry, nil
}

// Update edits a draft entry. Printed entries are frozen; the issued number
// and payload on record must match the paper in the archive.
func (s *Service) Update(ctx context.Context, entry *Surat) (*Surat, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == StatusPrinted {
		return nil, apperror.NewEntryPrinted(current.ID.String())
	}
	if entry.LetterType != current.LetterType {
		return nil, apperror.NewValidation("letter_type cannot be changed; cancel and create a new entry")
	}

	lt, _ := s.types.Get(current.LetterType)
	if lt != nil {
		if err := lt.ValidatePayload(ctx, entry.Payload); err != nil {
			return nil, err
		}
	}

	if entry.PemohonNIK != current.PemohonNIK {
		resident, err := s.residents.GetByNIK(ctx, entry.PemohonNIK)
		if err != nil {
			return nil, err
		}
		entry.PemohonNama = resident.Nama
	} else if entry.PemohonNama == "" {
		entry.PemohonNama = current.PemohonNama
	}

	// The number was assigned at creation and survives edits.
	entry.ReservationID = current.ReservationID
	entry.NomorSurat = current.NomorSurat
	entry.Biaya = current.Biaya
	entry.Status = current.Status
	entry.CreatedBy = current.CreatedBy
	entry.CreatedAt = current.CreatedAt
	entry.PrintedAt = current.PrintedAt
	entry.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Print confirms the entry's number and marks it printed. Idempotent: printing
// an already printed entry returns it unchanged.
func (s *Service) Print(ctx context.Context, sid id.ID) (*Surat, error) {
	entry, err := s.repo.GetByID(ctx, sid)
	if err != nil {
		return nil, err
	}
	if entry.Status == StatusPrinted {
		return entry, nil
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.numbers.ConfirmNumber(ctx, entry.ReservationID); err != nil {
			return err
		}
		now := s.now()
		entry.Status = StatusPrinted
		entry.PrintedAt = &now
		entry.UpdatedAt = now
		return s.repo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Infow("surat printed",
		"surat_id", entry.ID,
		"nomor", entry.NomorSurat,
	)
	return entry, nil
}

// Cancel discards a draft entry and releases its number back to limbo.
// The sequence value is burned, not reused. Printed entries cannot be
// cancelled.
func (s *Service) Cancel(ctx context.Context, sid id.ID) error {
	entry, err := s.repo.GetByID(ctx, sid)
	if err != nil {
		return err
	}
	if entry.Status == StatusPrinted {
		return apperror.NewEntryPrinted(entry.ID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.numbers.CancelNumber(ctx, entry.ReservationID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, entry.ID)
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Infow("surat cancelled", "surat_id", sid)
	return nil
}

func (s *Service) GetByID(ctx context.Context, sid id.ID) (*Surat, error) {
	return s.repo.GetByID(ctx, sid)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Surat, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.List(ctx, filter)
}
