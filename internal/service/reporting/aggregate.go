package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
)

const dateLayout = "2006-01-02"

// DefaultRecentRows is how many entries the dashboard table shows.
const DefaultRecentRows = 5

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// DateRange is an inclusive calendar range. Empty bounds are unbounded.
type DateRange struct {
	Start string `form:"startDate" json:"startDate,omitempty"`
	End   string `form:"endDate" json:"endDate,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Validate checks that both bounds, when set, are calendar dates and in order.
func (r DateRange) Validate() error {
	start, end, err := r.bounds()
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return models.Invalid("endDate %s is before startDate %s", r.End, r.Start)
	}
	return nil
}

// bounds returns the start instant and the exclusive end instant (the day
// after End), zero when unbounded.
func (r DateRange) bounds() (time.Time, time.Time, error) {
	var start, end time.Time
	if r.Start != "" {
		t, err := time.Parse(dateLayout, r.Start)
		if err != nil {
			return start, end, models.Invalid("invalid startDate %q", r.Start)
		}
		start = t
	}
	if r.End != "" {
		t, err := time.Parse(dateLayout, r.End)
		if err != nil {
			return start, end, models.Invalid("invalid endDate %q", r.End)
		}
		end = t.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// ComputeKPIs sums volume and ritase and averages pencapaian and EU. An
// empty input yields all zeros.
func ComputeKPIs(records []models.OperationalRecord) models.KPIs {
	var kpis models.KPIs
	if len(records) == 0 {
		return kpis
	}

	var pencapaian, eu float64
	for _, r := range records {
		kpis.TotalVolume += r.Volume
		kpis.TotalRitase += r.Ritase
		pencapaian += r.Pencapaian
		eu += r.Eu
	}
	n := float64(len(records))
	kpis.AveragePencapaian = pencapaian / n
	kpis.AverageEU = eu / n
	return kpis
}

// FilterByRange keeps records whose date lies within the range, the end day
// included in full. Records with unparseable dates only survive an empty range.
func FilterByRange(records []models.OperationalRecord, rng DateRange) ([]models.OperationalRecord, error) {
	if rng.IsZero() {
		return records, nil
	}
	start, end, err := rng.bounds()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.OperationalRecord, 0, len(records))
	for _, r := range records {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			continue
		}
		if !start.IsZero() && day.Before(start) {
			continue
		}
		if !end.IsZero() && !day.Before(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// MonthlySeries sums volume and target per calendar month, oldest first.
func MonthlySeries(records []models.OperationalRecord) []models.SeriesPoint {
	return bucket(records, func(day time.Time) (string, string) {
		key := fmt.Sprintf("%04d-%02d", day.Year(), int(day.Month()))
		label := fmt.Sprintf("%s %02d", shortMonths[day.Month()-1], day.Year()%100)
		return key, label
	})
}

// YearlySeries sums volume and target per calendar year, oldest first.
func YearlySeries(records []models.OperationalRecord) []models.SeriesPoint {
	return bucket(records, func(day time.Time) (string, string) {
		key := fmt.Sprintf("%04d", day.Year())
		return key, key
	})
}

func bucket(records []models.OperationalRecord, keyOf func(time.Time) (string, string)) []models.SeriesPoint {
	buckets := make(map[string]*models.SeriesPoint)
	for _, r := range records {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			continue
		}
		key, label := keyOf(day)
		point, ok := buckets[key]
		if !ok {
			point = &models.SeriesPoint{Key: key, Label: label}
			buckets[key] = point
		}
		point.Volume += r.Volume
		point.TargetM3 += r.TargetM3
	}

	series := make([]models.SeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Key < series[j].Key })
	return series
}

// DailySeries lists each record as a chart point in ascending date order.
func DailySeries(records []models.OperationalRecord) []models.DailyPoint {
	points := make([]models.DailyPoint, 0, len(records))
	for _, r := range records {
		points = append(points, models.DailyPoint{
			Date:       r.Date,
			Volume:     r.Volume,
			TargetM3:   r.TargetM3,
			Pencapaian: r.Pencapaian,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// RecentEntries returns the n newest records, newest first.
func RecentEntries(records []models.OperationalRecord, n int) []models.OperationalRecord {
	sorted := append([]models.OperationalRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BuildOperationalDashboard runs every reduction over the records in range.
func BuildOperationalDashboard(records []models.OperationalRecord, rng DateRange, recentRows int) (models.OperationalDashboard, error) {
	filtered, err := FilterByRange(records, rng)
	if err != nil {
		return models.OperationalDashboard{}, err
	}
	if recentRows <= 0 {
		recentRows = DefaultRecentRows
	}
	return models.OperationalDashboard{
		KPIs:    ComputeKPIs(filtered),
		Recent:  RecentEntries(filtered, recentRows),
		Daily:   DailySeries(filtered),
		Monthly: MonthlySeries(filtered),
		Yearly:  YearlySeries(filtered),
		Count:   len(filtered),
	}, nil
}
