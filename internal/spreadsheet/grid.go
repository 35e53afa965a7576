package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bbag/minedash/internal/domain/models"
)

// DateColumns are the headers whose numeric cells hold spreadsheet serial dates.
var DateColumns = []string{"date", "tanggal_bergabung", "tanggal_lahir"}

// Serial numbers beyond 9999-12-31 are not dates.
const maxSerialDate = 2958465

// TableFromGrid turns a rectangular grid whose first line is the header into
// a table. Blank cells are left out of their row, fully blank lines are
// skipped, and numeric cells under a date column become time.Time values.
func TableFromGrid(grid [][]interface{}, dateColumns ...string) models.Table {
	if len(grid) == 0 {
		return models.Table{}
	}

	isDate := make(map[string]bool, len(dateColumns))
	for _, col := range dateColumns {
		isDate[col] = true
	}

	header := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		header[i] = cellString(cell)
	}

	table := models.Table{Header: compact(header)}
	for _, line := range grid[1:] {
		row := make(models.Row, len(line))
		for i, cell := range line {
			if i >= len(header) || header[i] == "" || cellString(cell) == "" {
				continue
			}
			if isDate[header[i]] {
				cell = serialDate(cell)
			}
			row[header[i]] = cell
		}
		if len(row) > 0 {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

func serialDate(cell interface{}) interface{} {
	var serial float64
	switch v := cell.(type) {
	case float64:
		serial = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return cell
		}
		serial = parsed
	default:
		return cell
	}
	if serial <= 0 || serial > maxSerialDate {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}

func compact(header []string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
