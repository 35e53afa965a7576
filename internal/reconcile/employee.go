package reconcile

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bbag/minedash/internal/domain/models"
)

// Employee reconciles one manually submitted employee. nama, nik and posisi
// are required, exactly as on the import path.
func (r *Reconciler) Employee(row models.Row) (models.Employee, error) {
	emp := r.buildEmployee(row)
	if missing := r.missingRequired(emp); len(missing) > 0 {
		return models.Employee{}, models.Invalid("missing required field %s", strings.Join(missing, ", "))
	}
	return emp, nil
}

// EmployeeBatch reconciles an imported employee table. The batch is rejected
// as a whole on the first invalid row.
func (r *Reconciler) EmployeeBatch(table models.Table) ([]models.Employee, error) {
	if table.Len() == 0 {
		return nil, models.Invalid("empty import file")
	}
	for _, col := range models.EmployeeRequiredColumns {
		if !table.HasColumn(col) {
			return nil, models.Invalid("missing required column %s", col)
		}
	}

	employees := make([]models.Employee, 0, table.Len())
	for i, row := range table.Rows {
		emp := r.buildEmployee(row)
		if len(r.missingRequired(emp)) > 0 {
			return nil, models.Invalid("row %d: missing required field", rowNumber(i))
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func (r *Reconciler) buildEmployee(row models.Row) models.Employee {
	emp := models.NewEmployee()
	for _, field := range emp.TextFields() {
		if value, ok := row[field.Key]; ok && value != nil {
			*field.Value = Text(value)
		}
	}

	if joined, ok := NormalizeDate(row["tanggal_bergabung"]); ok {
		emp.TanggalBergabung = joined
	} else {
		emp.TanggalBergabung = r.today()
	}

	if born, ok := NormalizeDate(row["tanggal_lahir"]); ok {
		emp.TanggalLahir = born
	} else {
		emp.TanggalLahir = ""
	}

	emp.GajiTerakhir = NumberOr(row["gaji_terakhir"], 0)
	return emp
}

// missingRequired returns the json names of empty required fields, sorted.
func (r *Reconciler) missingRequired(emp models.Employee) []string {
	err := r.validate.Struct(emp)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, jsonName(fe.Field()))
	}
	sort.Strings(missing)
	return missing
}

func jsonName(field string) string {
	switch field {
	case "NIK":
		return "nik"
	default:
		return strings.ToLower(field)
	}
}
