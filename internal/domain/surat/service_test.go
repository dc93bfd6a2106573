package surat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/internal/domain/lettertype"
	"suratdesa/internal/domain/numbering"
	"suratdesa/internal/domain/penduduk"
	"suratdesa/pkg/logger"
)

type memRepo struct {
	mu      sync.Mutex
	entries map[id.ID]*Surat
}

func newMemRepo() *memRepo {
	return &memRepo{entries: make(map[id.ID]*Surat)}
}

func (r *memRepo) Create(_ context.Context, s *Surat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.entries[s.ID] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, s *Surat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[s.ID]; !ok {
		return apperror.NewNotFound("surat", s.ID)
	}
	cp := *s
	r.entries[s.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, sid id.ID) (*Surat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.entries[sid]
	if !ok {
		return nil, apperror.NewNotFound("surat", sid)
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) Delete(_ context.Context, sid id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[sid]; !ok {
		return apperror.NewNotFound("surat", sid)
	}
	delete(r.entries, sid)
	return nil
}

func (r *memRepo) List(_ context.Context, filter ListFilter) ([]*Surat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Surat, 0, len(r.entries))
	for _, s := range r.entries {
		if filter.LetterType != "" && s.LetterType != filter.LetterType {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// fakeIssuer hands out sequential numbers and tracks reservation state the
// way the numbering service does.
type fakeIssuer struct {
	mu       sync.Mutex
	next     int64
	statuses map[id.ID]numbering.Status
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{next: 0, statuses: make(map[id.ID]numbering.Status)}
}

func (f *fakeIssuer) RequestNumber(_ context.Context, letterType string, manualSeq *int64) (*numbering.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var seq int64
	if manualSeq != nil {
		seq = *manualSeq
		if f.next < seq {
			f.next = seq
		}
	} else {
		f.next++
		seq = f.next
	}
	period := numbering.Period{Key: "2025", Year: 2025, Month: time.January}
	res := numbering.NewReservation(letterType, period, seq, fmt.Sprintf("%d/01/I/2025", seq), manualSeq != nil)
	f.statuses[res.ID] = numbering.StatusPending
	return res, nil
}

func (f *fakeIssuer) ConfirmNumber(_ context.Context, rid id.ID) (*numbering.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.statuses[rid] {
	case numbering.StatusReleased:
		return nil, apperror.NewAlreadyReleased(rid.String())
	case "":
		return nil, apperror.NewNotFound("reservation", rid)
	}
	f.statuses[rid] = numbering.StatusConfirmed
	return &numbering.Reservation{ID: rid, Status: numbering.StatusConfirmed}, nil
}

func (f *fakeIssuer) CancelNumber(_ context.Context, rid id.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses[rid] == "" {
		return apperror.NewNotFound("reservation", rid)
	}
	if f.statuses[rid] == numbering.StatusPending {
		f.statuses[rid] = numbering.StatusReleased
	}
	return nil
}

type fakeResidents struct{}

func (fakeResidents) GetByNIK(_ context.Context, nik string) (*penduduk.Penduduk, error) {
	if nik != "3201011503900001" {
		return nil, apperror.NewNotFound("penduduk", nik)
	}
	return &penduduk.Penduduk{NIK: nik, Nama: "Budi Santoso"}, nil
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *fakeIssuer, *memRepo) {
	t.Helper()
	reg, err := lettertype.NewRegistry(lettertype.DefaultDefinitions())
	require.NoError(t, err)

	repo := newMemRepo()
	issuer := newFakeIssuer()
	svc := NewService(repo, issuer, reg, fakeResidents{}, nopTxManager{}, logger.Default())
	return svc, issuer, repo
}

func draft() *Surat {
	return &Surat{
		LetterType: "surat-keterangan-umum",
		PemohonNIK: "3201011503900001",
		Keperluan:  "Persyaratan bank",
	}
}

func TestCreateReservesNumberAndFillsName(t *testing.T) {
	svc, issuer, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, entry.Status)
	assert.Equal(t, "Budi Santoso", entry.PemohonNama)
	assert.NotEmpty(t, entry.NomorSurat)
	assert.False(t, id.IsNil(entry.ReservationID))
	assert.Equal(t, numbering.StatusPending, issuer.statuses[entry.ReservationID])
}

func TestCreateRejectsUnknownLetterType(t *testing.T) {
	svc, _, _ := newTestService(t)

	e := draft()
	e.LetterType = "surat-misterius"
	_, err := svc.Create(context.Background(), e, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreateRejectsUnknownNIK(t *testing.T) {
	svc, _, _ := newTestService(t)

	e := draft()
	e.PemohonNIK = "9999999999999999"
	_, err := svc.Create(context.Background(), e, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateEnforcesPayloadRule(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	e := draft()
	e.LetterType = "surat-keterangan-usaha"
	e.Payload = map[string]any{}
	_, err := svc.Create(ctx, e, nil)
	require.Error(t, err)

	e = draft()
	e.LetterType = "surat-keterangan-usaha"
	e.Payload = map[string]any{"nama_usaha": "Warung Bu Siti"}
	_, err = svc.Create(ctx, e, nil)
	assert.NoError(t, err)
}

func TestPrintConfirmsReservation(t *testing.T) {
	svc, issuer, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)

	printed, err := svc.Print(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPrinted, printed.Status)
	require.NotNil(t, printed.PrintedAt)
	assert.Equal(t, entry.NomorSurat, printed.NomorSurat)
	assert.Equal(t, numbering.StatusConfirmed, issuer.statuses[entry.ReservationID])
}

func TestPrintIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)

	first, err := svc.Print(ctx, entry.ID)
	require.NoError(t, err)
	second, err := svc.Print(ctx, entry.ID)
	require.NoError(t, err)

	assert.Equal(t, first.NomorSurat, second.NomorSurat)
	assert.Equal(t, first.PrintedAt.Unix(), second.PrintedAt.Unix())
}

func TestCancelReleasesNumberAndDeletes(t *testing.T) {
	svc, issuer, repo := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, entry.ID))
	assert.Equal(t, numbering.StatusReleased, issuer.statuses[entry.ReservationID])

	_, err = repo.GetByID(ctx, entry.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCancelRejectsPrinted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)
	_, err = svc.Print(ctx, entry.ID)
	require.NoError(t, err)

	err = svc.Cancel(ctx, entry.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEntryPrinted))
}

func TestUpdateFrozenAfterPrint(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)
	_, err = svc.Print(ctx, entry.ID)
	require.NoError(t, err)

	entry.Keperluan = "Lain-lain"
	_, err = svc.Update(ctx, entry)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeEntryPrinted))
}

func TestUpdateKeepsNumberAndType(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)
	nomor := entry.NomorSurat

	entry.Keperluan = "Persyaratan sekolah"
	updated, err := svc.Update(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, nomor, updated.NomorSurat)
	assert.Equal(t, "Persyaratan sekolah", updated.Keperluan)

	entry.LetterType = "surat-pengantar-umum"
	_, err = svc.Update(ctx, entry)
	require.Error(t, err)
}

func TestUpdateRejectsUnknownNIK(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	entry, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)

	entry.PemohonNIK = "9999999999999999"
	_, err = svc.Update(ctx, entry)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateWithManualNumber(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	manual := int64(100)
	entry, err := svc.Create(ctx, draft(), &manual)
	require.NoError(t, err)
	assert.Contains(t, entry.NomorSurat, "100")

	// The counter advanced past the manual value.
	next, err := svc.Create(ctx, draft(), nil)
	require.NoError(t, err)
	assert.Contains(t, next.NomorSurat, "101")
}

func TestCreateCarriesFee(t *testing.T) {
	reg, err := lettertype.NewRegistry([]lettertype.Definition{
		{Code: "berbayar", Name: "Berbayar", DeskCode: "09", Fee: "15000"},
	})
	require.NoError(t, err)

	svc := NewService(newMemRepo(), newFakeIssuer(), reg, fakeResidents{}, nopTxManager{}, logger.Default())

	e := draft()
	e.LetterType = "berbayar"
	entry, err := svc.Create(context.Background(), e, nil)
	require.NoError(t, err)
	assert.Equal(t, "15000", entry.Biaya.String())
}
