package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bbag/minedash/internal/domain/models"
)

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names used by generated workbooks.
const (
	SheetOperational         = "Data Operasional"
	SheetEmployees           = "Data Karyawan"
	SheetOperationalTemplate = "Template Operasional"
	SheetEmployeeTemplate    = "Template Karyawan"
)

// Template kinds accepted by Template.
const (
	KindOperational = "operational"
	KindEmployees   = "employees"
)

// ErrUnknownTemplate is returned by Template for an unsupported kind.
var ErrUnknownTemplate = errors.New("unknown template kind")

// ReadTable reads the first sheet of an .xlsx workbook. Cells are read
// unformatted so numbers keep their full precision.
func ReadTable(r io.Reader, dateColumns ...string) (models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return models.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Table{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	grid := make([][]interface{}, len(rows))
	for i, row := range rows {
		grid[i] = make([]interface{}, len(row))
		for j, cell := range row {
			grid[i][j] = cell
		}
	}
	return TableFromGrid(grid, dateColumns...), nil
}

// Backup renders both collections into one workbook, one sheet each.
func Backup(records []models.OperationalRecord, employees []models.Employee) (*bytes.Buffer, error) {
	opRows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		opRows = append(opRows, rec.Values())
	}
	empRows := make([][]interface{}, 0, len(employees))
	for _, emp := range employees {
		empRows = append(empRows, emp.Values())
	}

	return build([]sheet{
		{name: SheetOperational, header: models.OperationalExportColumns, rows: opRows},
		{name: SheetEmployees, header: models.EmployeeExportColumns(), rows: empRows},
	})
}

// Template renders the import template for kind with a few example rows.
// It returns the workbook and a suggested file name.
func Template(kind string) (*bytes.Buffer, string, error) {
	switch kind {
	case KindOperational:
		buf, err := build([]sheet{{
			name:   SheetOperationalTemplate,
			header: models.OperationalColumns,
			rows: [][]interface{}{
				{"2025-07-20", 18, 2, 4, 100, 1100, 1050},
				{"2025-07-21", 20, 1, 3, 110, 1250, 1050},
				{"2025-07-22", 15, 5, 4, 90, 950, 1050},
			},
		}})
		return buf, "template_operasional.xlsx", err
	case KindEmployees:
		rows := make([][]interface{}, 0, len(exampleEmployees))
		for _, emp := range exampleEmployees {
			rows = append(rows, emp().Values()[2:])
		}
		buf, err := build([]sheet{{
			name:   SheetEmployeeTemplate,
			header: models.EmployeeColumns(),
			rows:   rows,
		}})
		return buf, "template_karyawan.xlsx", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownTemplate, kind)
	}
}

var exampleEmployees = []func() models.Employee{
	func() models.Employee {
		e := models.NewEmployee()
		e.Nama, e.NIK, e.Posisi = "Budi Santoso", "3201234567890001", "Operator Excavator"
		e.TanggalBergabung, e.NomorHP = "2022-08-15", "081234567890"
		e.TempatLahir, e.TanggalLahir = "Bandung", "1990-05-20"
		e.StatusPerkawinan = "Menikah"
		return e
	},
	func() models.Employee {
		e := models.NewEmployee()
		e.Nama, e.NIK, e.Posisi = "Siti Aminah", "3202345678900002", "Staff HRGA"
		e.Departemen, e.Divisi = "HRGA", "HRGA"
		e.TanggalBergabung, e.NomorHP = "2023-01-20", "082345678901"
		e.TempatLahir, e.TanggalLahir = "Jakarta", "1995-11-12"
		e.JenisKelamin, e.PendidikanTerakhir = "Perempuan", "S1"
		return e
	},
	func() models.Employee {
		e := models.NewEmployee()
		e.Nama, e.NIK, e.Posisi = "Agus Wijaya", "3203456789000003", "Mekanik Senior"
		e.Departemen, e.Divisi = "Mekanik", "Workshop"
		e.TanggalBergabung, e.NomorHP = "2021-05-10", "083456789012"
		e.TempatLahir, e.TanggalLahir = "Surabaya", "1988-03-25"
		e.Agama, e.StatusPerkawinan, e.PendidikanTerakhir = "Kristen Protestan", "Menikah", "SMK"
		return e
	},
}

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

func build(sheets []sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
		}

		for col, h := range s.header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(s.name, cell, h); err != nil {
				return nil, fmt.Errorf("write header %s: %w", h, err)
			}
		}
		last, _ := excelize.CoordinatesToCellName(len(s.header), 1)
		if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("style header: %w", err)
		}

		for r, values := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			row := values
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", s.name, r+2, err)
			}
		}

		if err := f.SetPanes(s.name, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return nil, fmt.Errorf("freeze %s header: %w", s.name, err)
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
