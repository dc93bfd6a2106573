package penduduk

import (
	"time"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
)

// Penduduk is one resident record from the village registry. Letter forms
// pull applicant biodata from here by NIK instead of retyping it.
type Penduduk struct {
	ID           id.ID     `db:"id" json:"id"`
	NIK          string    `db:"nik" json:"nik"`
	Nama         string    `db:"nama" json:"nama"`
	TempatLahir  string    `db:"tempat_lahir" json:"tempat_lahir"`
	TanggalLahir time.Time `db:"tanggal_lahir" json:"tanggal_lahir"`
	JenisKelamin string    `db:"jenis_kelamin" json:"jenis_kelamin"`
	Agama        string    `db:"agama" json:"agama"`
	Pekerjaan    string    `db:"pekerjaan" json:"pekerjaan"`
	StatusKawin  string    `db:"status_kawin" json:"status_kawin"`
	Alamat       string    `db:"alamat" json:"alamat"`
	RT           string    `db:"rt" json:"rt"`
	RW           string    `db:"rw" json:"rw"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ValidNIK reports whether s looks like a national identity number:
// exactly 16 digits.
func ValidNIK(s string) bool {
	if len(s) != 16 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Validate checks required fields before persisting.
func (p *Penduduk) Validate() error {
	if !ValidNIK(p.NIK) {
		return apperror.NewValidation("nik must be 16 digits").WithDetail("nik", p.NIK)
	}
	if p.Nama == "" {
		return apperror.NewValidation("nama is required")
	}
	return nil
}
