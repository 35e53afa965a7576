package spreadsheet

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/reconcile"
)

func TestTableFromGrid(t *testing.T) {
	grid := [][]interface{}{
		{" date ", "volume", "", "note"},
		{float64(45858), "1100", "ignored", ""},
		{"", "", "", ""},
		{"2025-07-21", float64(1250)},
	}

	table := TableFromGrid(grid, DateColumns...)

	if len(table.Header) != 3 || table.Header[0] != "date" {
		t.Fatalf("unexpected header %v", table.Header)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	first := table.Rows[0]
	if _, ok := first["note"]; ok {
		t.Fatal("blank cells must be left out of the row")
	}
	date, ok := reconcile.NormalizeDate(first["date"])
	if !ok || date != "2025-07-20" {
		t.Fatalf("serial 45858 should be 2025-07-20, got %q (%v)", date, ok)
	}
	if table.Rows[1]["date"] != "2025-07-21" {
		t.Fatalf("text dates must pass through, got %v", table.Rows[1]["date"])
	}
}

func TestTableFromGridEmpty(t *testing.T) {
	if table := TableFromGrid(nil); table.Len() != 0 || len(table.Header) != 0 {
		t.Fatalf("expected empty table, got %+v", table)
	}
}

func TestOperationalTemplateRoundTrip(t *testing.T) {
	buf, name, err := Template(KindOperational)
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if name != "template_operasional.xlsx" {
		t.Fatalf("unexpected file name %q", name)
	}

	table, err := ReadTable(bytes.NewReader(buf.Bytes()), DateColumns...)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	for _, col := range models.OperationalColumns {
		if !table.HasColumn(col) {
			t.Fatalf("template is missing column %s", col)
		}
	}

	records, err := reconcile.New(reconcile.Options{}).OperationalBatch(table)
	if err != nil {
		t.Fatalf("template must import cleanly: %v", err)
	}
	if len(records) != 3 || records[0].Date != "2025-07-20" || records[0].Volume != 1100 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestEmployeeTemplateRoundTrip(t *testing.T) {
	buf, _, err := Template(KindEmployees)
	if err != nil {
		t.Fatalf("Template: %v", err)
	}

	table, err := ReadTable(bytes.NewReader(buf.Bytes()), DateColumns...)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}

	employees, err := reconcile.New(reconcile.Options{}).EmployeeBatch(table)
	if err != nil {
		t.Fatalf("template must import cleanly: %v", err)
	}
	if len(employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(employees))
	}
	if employees[0].NIK != "3201234567890001" {
		t.Fatalf("NIK must survive the round trip, got %q", employees[0].NIK)
	}
	if employees[1].Departemen != "HRGA" || employees[1].JenisKelamin != "Perempuan" {
		t.Fatalf("unexpected second employee %+v", employees[1])
	}
}

func TestTemplateUnknownKind(t *testing.T) {
	if _, _, err := Template("payroll"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestBackupSheets(t *testing.T) {
	records := []models.OperationalRecord{{ID: 1, Date: "2025-07-20", Volume: 1100}}
	employees := []models.Employee{{ID: 7, Nama: "Budi", NIK: "3201234567890001", Posisi: "Operator"}}

	buf, err := Backup(records, employees)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open backup: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetOperational || sheets[1] != SheetEmployees {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	if v, _ := f.GetCellValue(SheetOperational, "B2"); v != "2025-07-20" {
		t.Fatalf("expected date in B2, got %q", v)
	}
	if v, _ := f.GetCellValue(SheetEmployees, "A1"); v != "id" {
		t.Fatalf("expected id header, got %q", v)
	}
	for _, sheet := range sheets {
		panes, err := f.GetPanes(sheet)
		if err != nil {
			t.Fatalf("GetPanes(%s): %v", sheet, err)
		}
		if !panes.Freeze || panes.YSplit != 1 {
			t.Fatalf("%s header row should be frozen, got %+v", sheet, panes)
		}
	}
}

func TestReadTableConvertsDateCells(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "date")
	_ = f.SetCellValue("Sheet1", "B1", "volume")
	_ = f.SetCellValue("Sheet1", "A2", time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC))
	_ = f.SetCellValue("Sheet1", "B2", 1100)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := ReadTable(bytes.NewReader(buf.Bytes()), DateColumns...)
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	date, ok := reconcile.NormalizeDate(table.Rows[0]["date"])
	if !ok || date != "2025-07-20" {
		t.Fatalf("expected 2025-07-20, got %q (%v)", date, ok)
	}
}
