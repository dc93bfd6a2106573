package dto

import (
	"time"

	"suratdesa/internal/domain/penduduk"
)

// PendudukListRequest filters the resident listing.
type PendudukListRequest struct {
	PaginationRequest
	Search string `form:"search"`
}

// ToFilter converts to domain filter.
func (r *PendudukListRequest) ToFilter() penduduk.ListFilter {
	r.Defaults()
	return penduduk.ListFilter{
		Search: r.Search,
		Limit:  r.Limit,
		Offset: r.Offset,
	}
}

// PendudukResponse represents a resident in API responses.
type PendudukResponse struct {
	ID           string    `json:"id"`
	NIK          string    `json:"nik"`
	Nama         string    `json:"nama"`
	TempatLahir  string    `json:"tempatLahir,omitempty"`
	TanggalLahir time.Time `json:"tanggalLahir"`
	JenisKelamin string    `json:"jenisKelamin,omitempty"`
	Agama        string    `json:"agama,omitempty"`
	Pekerjaan    string    `json:"pekerjaan,omitempty"`
	StatusKawin  string    `json:"statusKawin,omitempty"`
	Alamat       string    `json:"alamat,omitempty"`
	RT           string    `json:"rt,omitempty"`
	RW           string    `json:"rw,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromPenduduk creates response from domain entity.
func FromPenduduk(p *penduduk.Penduduk) *PendudukResponse {
	return &PendudukResponse{
		ID:           p.ID.String(),
		NIK:          p.NIK,
		Nama:         p.Nama,
		TempatLahir:  p.TempatLahir,
		TanggalLahir: p.TanggalLahir,
		JenisKelamin: p.JenisKelamin,
		Agama:        p.Agama,
		Pekerjaan:    p.Pekerjaan,
		StatusKawin:  p.StatusKawin,
		Alamat:       p.Alamat,
		RT:           p.RT,
		RW:           p.RW,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromPendudukList maps a resident slice.
func FromPendudukList(items []*penduduk.Penduduk) []*PendudukResponse {
	out := make([]*PendudukResponse, len(items))
	for i, p := range items {
		out[i] = FromPenduduk(p)
	}
	return out
}
