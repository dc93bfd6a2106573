package penduduk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
	"suratdesa/pkg/logger"
)

type memRepo struct {
	mu    sync.Mutex
	byID  map[id.ID]*Penduduk
	byNIK map[string]*Penduduk
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[id.ID]*Penduduk), byNIK: make(map[string]*Penduduk)}
}

func (r *memRepo) Create(_ context.Context, p *Penduduk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byID[p.ID] = &cp
	r.byNIK[p.NIK] = &cp
	return nil
}

func (r *memRepo) Update(_ context.Context, p *Penduduk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return apperror.NewNotFound("penduduk", p.ID)
	}
	cp := *p
	r.byID[p.ID] = &cp
	r.byNIK[p.NIK] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, pid id.ID) (*Penduduk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[pid]
	if !ok {
		return nil, apperror.NewNotFound("penduduk", pid)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) GetByNIK(_ context.Context, nik string) (*Penduduk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byNIK[nik]
	if !ok {
		return nil, apperror.NewNotFound("penduduk", nik)
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, filter ListFilter) ([]*Penduduk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Penduduk, 0, len(r.byID))
	for _, p := range r.byID {
		cp := *p
		out = append(out, &cp)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func sample() *Penduduk {
	return &Penduduk{
		NIK:          "3201011503900001",
		Nama:         "Budi Santoso",
		TempatLahir:  "Bogor",
		TanggalLahir: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		JenisKelamin: "L",
		Agama:        "Islam",
		Pekerjaan:    "Wiraswasta",
		StatusKawin:  "Kawin",
		Alamat:       "Kp. Cibeureum",
		RT:           "003",
		RW:           "01",
	}
}

func TestValidNIK(t *testing.T) {
	assert.True(t, ValidNIK("3201011503900001"))
	assert.False(t, ValidNIK("320101150390000"))   // 15 digits
	assert.False(t, ValidNIK("32010115039000011")) // 17 digits
	assert.False(t, ValidNIK("32010115039000ab"))
	assert.False(t, ValidNIK(""))
}

func TestCreateAndGetByNIK(t *testing.T) {
	svc := NewService(newMemRepo(), logger.Default())
	ctx := context.Background()

	p := sample()
	require.NoError(t, svc.Create(ctx, p))
	assert.False(t, id.IsNil(p.ID))

	got, err := svc.GetByNIK(ctx, p.NIK)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", got.Nama)
}

func TestCreateRejectsDuplicateNIK(t *testing.T) {
	svc := NewService(newMemRepo(), logger.Default())
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, sample()))

	err := svc.Create(ctx, sample())
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestGetByNIKRejectsMalformed(t *testing.T) {
	svc := NewService(newMemRepo(), logger.Default())

	_, err := svc.GetByNIK(context.Background(), "not-a-nik")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestGetByNIKUnknown(t *testing.T) {
	svc := NewService(newMemRepo(), logger.Default())

	_, err := svc.GetByNIK(context.Background(), "3201011503900099")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateKeepsNIK(t *testing.T) {
	svc := NewService(newMemRepo(), logger.Default())
	ctx := context.Background()

	p := sample()
	require.NoError(t, svc.Create(ctx, p))

	p.NIK = "3201011503900002"
	err := svc.Update(ctx, p)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	p.NIK = "3201011503900001"
	p.Pekerjaan = "Petani"
	require.NoError(t, svc.Update(ctx, p))

	got, err := svc.GetByNIK(ctx, p.NIK)
	require.NoError(t, err)
	assert.Equal(t, "Petani", got.Pekerjaan)
}
