package models

import "time"

// Employee (karyawan) is one worker's HR profile. ID and CreatedAt are
// assigned by the store.
type Employee struct {
	ID        int64     `bson:"id" json:"id"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`

	// Job.
	Departemen       string `bson:"departemen,omitempty" json:"departemen"`
	Divisi           string `bson:"divisi,omitempty" json:"divisi"`
	Posisi           string `bson:"posisi" json:"posisi" validate:"required"`
	Status           string `bson:"status" json:"status"`
	TanggalBergabung string `bson:"tanggal_bergabung" json:"tanggal_bergabung"`
	MasaKontrak      string `bson:"masa_kontrak,omitempty" json:"masa_kontrak"`
	FotoURL          string `bson:"foto_url,omitempty" json:"foto_url"`

	// Personal.
	Nama           string `bson:"nama" json:"nama" validate:"required"`
	NIK            string `bson:"nik" json:"nik" validate:"required"`
	AlamatKTP      string `bson:"alamat_ktp,omitempty" json:"alamat_ktp"`
	AlamatSekarang string `bson:"alamat_sekarang,omitempty" json:"alamat_sekarang"`
	JenisKelamin   string `bson:"jenis_kelamin,omitempty" json:"jenis_kelamin"`
	TempatLahir    string `bson:"tempat_lahir,omitempty" json:"tempat_lahir"`
	TanggalLahir   string `bson:"tanggal_lahir,omitempty" json:"tanggal_lahir"`
	Agama          string `bson:"agama,omitempty" json:"agama"`
	GolonganDarah  string `bson:"golongan_darah,omitempty" json:"golongan_darah"`
	NomorHP        string `bson:"nomor_hp,omitempty" json:"nomor_hp"`

	// Family.
	StatusPerkawinan string `bson:"status_perkawinan,omitempty" json:"status_perkawinan"`
	NamaAyah         string `bson:"nama_ayah,omitempty" json:"nama_ayah"`
	PekerjaanAyah    string `bson:"pekerjaan_ayah,omitempty" json:"pekerjaan_ayah"`
	NamaIbu          string `bson:"nama_ibu,omitempty" json:"nama_ibu"`
	PekerjaanIbu     string `bson:"pekerjaan_ibu,omitempty" json:"pekerjaan_ibu"`
	NamaPasangan     string `bson:"nama_pasangan,omitempty" json:"nama_pasangan"`
	NamaAnak1        string `bson:"nama_anak1,omitempty" json:"nama_anak1"`
	NamaAnak2        string `bson:"nama_anak2,omitempty" json:"nama_anak2"`
	NamaAnak3        string `bson:"nama_anak3,omitempty" json:"nama_anak3"`

	// Education.
	PendidikanTerakhir string `bson:"pendidikan_terakhir,omitempty" json:"pendidikan_terakhir"`
	PendidikanSD       string `bson:"pendidikan_sd,omitempty" json:"pendidikan_sd"`
	PendidikanSMP      string `bson:"pendidikan_smp,omitempty" json:"pendidikan_smp"`
	PendidikanSMA      string `bson:"pendidikan_sma,omitempty" json:"pendidikan_sma"`
	PendidikanS1       string `bson:"pendidikan_s1,omitempty" json:"pendidikan_s1"`
	FakultasS1         string `bson:"fakultas_s1,omitempty" json:"fakultas_s1"`

	// Last employment.
	PerusahaanTerakhir       string  `bson:"perusahaan_terakhir,omitempty" json:"perusahaan_terakhir"`
	AlamatPerusahaanTerakhir string  `bson:"alamat_perusahaan_terakhir,omitempty" json:"alamat_perusahaan_terakhir"`
	AlasanBerhenti           string  `bson:"alasan_berhenti,omitempty" json:"alasan_berhenti"`
	LamaBekerjaTerakhir      string  `bson:"lama_bekerja_terakhir,omitempty" json:"lama_bekerja_terakhir"`
	PosisiTerakhir           string  `bson:"posisi_terakhir,omitempty" json:"posisi_terakhir"`
	GajiTerakhir             float64 `bson:"gaji_terakhir" json:"gaji_terakhir"`

	// Misc.
	UkuranSepatu  string `bson:"ukuran_sepatu,omitempty" json:"ukuran_sepatu"`
	UkuranBaju    string `bson:"ukuran_baju,omitempty" json:"ukuran_baju"`
	Hobi          string `bson:"hobi,omitempty" json:"hobi"`
	TujuanLiburan string `bson:"tujuan_liburan,omitempty" json:"tujuan_liburan"`
	MotoHariIni   string `bson:"moto_hari_ini,omitempty" json:"moto_hari_ini"`
}

// Employee status values.
const (
	StatusAktif      = "Aktif"
	StatusTidakAktif = "Tidak Aktif"
)

// EmployeeRequiredColumns must be present in every employee import header.
var EmployeeRequiredColumns = []string{"nama", "nik", "posisi"}

// NewEmployee returns an employee carrying the initial value of every field.
func NewEmployee() Employee {
	return Employee{
		Departemen:         "Mining",
		Divisi:             "Produksi",
		Status:             StatusAktif,
		JenisKelamin:       "Laki-laki",
		Agama:              "Islam",
		GolonganDarah:      "Tidak Tahu",
		StatusPerkawinan:   "Belum Menikah",
		PendidikanTerakhir: "SMA/SMK",
		UkuranBaju:         "L",
	}
}

// TextField pairs a column key with the string field it maps to.
type TextField struct {
	Key   string
	Value *string
}

// TextFields exposes every free-text attribute, in template column order.
// gaji_terakhir is numeric and not part of the list.
func (e *Employee) TextFields() []TextField {
	return []TextField{
		{"departemen", &e.Departemen},
		{"divisi", &e.Divisi},
		{"posisi", &e.Posisi},
		{"status", &e.Status},
		{"tanggal_bergabung", &e.TanggalBergabung},
		{"masa_kontrak", &e.MasaKontrak},
		{"foto_url", &e.FotoURL},
		{"nama", &e.Nama},
		{"nik", &e.NIK},
		{"alamat_ktp", &e.AlamatKTP},
		{"alamat_sekarang", &e.AlamatSekarang},
		{"jenis_kelamin", &e.JenisKelamin},
		{"tempat_lahir", &e.TempatLahir},
		{"tanggal_lahir", &e.TanggalLahir},
		{"agama", &e.Agama},
		{"golongan_darah", &e.GolonganDarah},
		{"nomor_hp", &e.NomorHP},
		{"status_perkawinan", &e.StatusPerkawinan},
		{"nama_ayah", &e.NamaAyah},
		{"pekerjaan_ayah", &e.PekerjaanAyah},
		{"nama_ibu", &e.NamaIbu},
		{"pekerjaan_ibu", &e.PekerjaanIbu},
		{"nama_pasangan", &e.NamaPasangan},
		{"nama_anak1", &e.NamaAnak1},
		{"nama_anak2", &e.NamaAnak2},
		{"nama_anak3", &e.NamaAnak3},
		{"pendidikan_terakhir", &e.PendidikanTerakhir},
		{"pendidikan_sd", &e.PendidikanSD},
		{"pendidikan_smp", &e.PendidikanSMP},
		{"pendidikan_sma", &e.PendidikanSMA},
		{"pendidikan_s1", &e.PendidikanS1},
		{"fakultas_s1", &e.FakultasS1},
		{"perusahaan_terakhir", &e.PerusahaanTerakhir},
		{"alamat_perusahaan_terakhir", &e.AlamatPerusahaanTerakhir},
		{"alasan_berhenti", &e.AlasanBerhenti},
		{"lama_bekerja_terakhir", &e.LamaBekerjaTerakhir},
		{"posisi_terakhir", &e.PosisiTerakhir},
		{"ukuran_sepatu", &e.UkuranSepatu},
		{"ukuran_baju", &e.UkuranBaju},
		{"hobi", &e.Hobi},
		{"tujuan_liburan", &e.TujuanLiburan},
		{"moto_hari_ini", &e.MotoHariIni},
	}
}

// EmployeeColumns returns the import template header: every text field
// followed by gaji_terakhir.
func EmployeeColumns() []string {
	var e Employee
	fields := e.TextFields()
	cols := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		cols = append(cols, f.Key)
	}
	return append(cols, "gaji_terakhir")
}

// Values returns the employee laid out as EmployeeColumns, prefixed by id
// and created_at.
func (e Employee) Values() []interface{} {
	fields := e.TextFields()
	values := make([]interface{}, 0, len(fields)+3)
	created := ""
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	values = append(values, e.ID, created)
	for _, f := range fields {
		values = append(values, *f.Value)
	}
	return append(values, e.GajiTerakhir)
}

// EmployeeExportColumns is the backup header matching Employee.Values.
func EmployeeExportColumns() []string {
	return append([]string{"id", "created_at"}, EmployeeColumns()...)
}
