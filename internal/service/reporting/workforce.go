package reporting

import (
	"sort"
	"strings"

	"github.com/bbag/minedash/internal/domain/models"
)

// StatusAll disables the status filter.
const StatusAll = "Semua"

// Grouping fields accepted by CountBy.
const (
	ByPosition   = "posisi"
	ByDepartment = "departemen"
)

// ComputeWorkforceKPIs counts employees by status and distinct position.
func ComputeWorkforceKPIs(employees []models.Employee) models.WorkforceKPIs {
	positions := make(map[string]struct{})
	var kpis models.WorkforceKPIs
	kpis.Total = len(employees)
	for _, e := range employees {
		if e.Status == models.StatusAktif {
			kpis.Active++
		}
		positions[strings.TrimSpace(e.Posisi)] = struct{}{}
	}
	kpis.Inactive = kpis.Total - kpis.Active
	kpis.UniquePositions = len(positions)
	return kpis
}

// CountBy returns the headcount per position or department, largest first.
func CountBy(employees []models.Employee, field string) []models.Headcount {
	counts := make(map[string]int)
	for _, e := range employees {
		var name string
		switch field {
		case ByDepartment:
			name = e.Departemen
		default:
			name = e.Posisi
		}
		if name == "" {
			name = "N/A"
		}
		counts[name]++
	}

	result := make([]models.Headcount, 0, len(counts))
	for name, count := range counts {
		result = append(result, models.Headcount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// SearchEmployees matches term against name and department (case-insensitive)
// and NIK (substring), then applies the status filter.
func SearchEmployees(employees []models.Employee, term, status string) []models.Employee {
	needle := strings.ToLower(strings.TrimSpace(term))
	matched := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if status != "" && status != StatusAll && e.Status != status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Nama), needle) &&
			!strings.Contains(e.NIK, strings.TrimSpace(term)) &&
			!strings.Contains(strings.ToLower(e.Departemen), needle) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// BuildEmployeeDashboard computes KPIs and charts over all employees and
// lists the ones matching the search.
func BuildEmployeeDashboard(employees []models.Employee, term, status string) models.EmployeeDashboard {
	return models.EmployeeDashboard{
		KPIs:         ComputeWorkforceKPIs(employees),
		ByPosition:   CountBy(employees, ByPosition),
		ByDepartment: CountBy(employees, ByDepartment),
		Employees:    SearchEmployees(employees, term, status),
	}
}
