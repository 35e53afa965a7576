package reconcile

import (
	"testing"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
)

func fixedReconciler() *Reconciler {
	return New(Options{
		Now: func() time.Time { return time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC) },
	})
}

func TestEmployeeDefaultsAndCoercion(t *testing.T) {
	r := fixedReconciler()

	emp, err := r.Employee(models.Row{
		"nama":          "Budi Santoso",
		"nik":           3201234567890001.0,
		"posisi":        "Operator Excavator",
		"tanggal_lahir": time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		"gaji_terakhir": "7500000",
		"unknown":       "ignored",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if emp.NIK != "3201234567890001" {
		t.Errorf("nik = %q", emp.NIK)
	}
	if emp.TanggalLahir != "1990-05-20" {
		t.Errorf("tanggal_lahir = %q", emp.TanggalLahir)
	}
	if emp.TanggalBergabung != "2025-08-01" {
		t.Errorf("tanggal_bergabung default = %q", emp.TanggalBergabung)
	}
	if emp.GajiTerakhir != 7500000 {
		t.Errorf("gaji_terakhir = %v", emp.GajiTerakhir)
	}
	if emp.Departemen != "Mining" || emp.Status != models.StatusAktif || emp.UkuranBaju != "L" {
		t.Errorf("initial values not applied: %+v", emp)
	}
}

func TestEmployeeUnparseableValues(t *testing.T) {
	r := fixedReconciler()
	emp, err := r.Employee(models.Row{
		"nama": "Siti", "nik": "3202", "posisi": "Staff HRGA",
		"tanggal_bergabung": "someday", "tanggal_lahir": "unknown", "gaji_terakhir": "banyak",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.TanggalBergabung != "2025-08-01" || emp.TanggalLahir != "" || emp.GajiTerakhir != 0 {
		t.Fatalf("unexpected fallback values: %+v", emp)
	}
}

func TestEmployeeManualPathRequiresFields(t *testing.T) {
	r := fixedReconciler()
	_, err := r.Employee(models.Row{"nama": "Agus", "posisi": "Mekanik"})
	assertValidation(t, err, "missing required field nik")

	_, err = r.Employee(models.Row{})
	assertValidation(t, err, "missing required field nama, nik, posisi")
}

func TestEmployeeBatch(t *testing.T) {
	r := fixedReconciler()
	table := models.Table{
		Header: []string{"nama", "nik", "posisi", "departemen"},
		Rows: []models.Row{
			{"nama": "Budi", "nik": "1", "posisi": "Operator", "departemen": "Mining"},
			{"nama": "Siti", "nik": "2", "posisi": "Staff", "departemen": "HRGA"},
		},
	}
	emps, err := r.EmployeeBatch(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(emps) != 2 || emps[1].Departemen != "HRGA" {
		t.Fatalf("unexpected employees %+v", emps)
	}
}

func TestEmployeeBatchMissingNikRejectsBatch(t *testing.T) {
	r := fixedReconciler()
	table := models.Table{
		Header: []string{"nama", "nik", "posisi"},
		Rows: []models.Row{
			{"nama": "Budi", "nik": "1", "posisi": "Operator"},
			{"nama": "Siti", "nik": "", "posisi": "Staff"},
		},
	}
	emps, err := r.EmployeeBatch(table)
	assertValidation(t, err, "row 3: missing required field")
	if emps != nil {
		t.Fatal("partial batch returned")
	}
}

func TestEmployeeBatchMissingColumn(t *testing.T) {
	r := fixedReconciler()
	table := models.Table{
		Header: []string{"nama", "posisi"},
		Rows:   []models.Row{{"nama": "Budi", "posisi": "Operator"}},
	}
	_, err := r.EmployeeBatch(table)
	assertValidation(t, err, "missing required column nik")
}
