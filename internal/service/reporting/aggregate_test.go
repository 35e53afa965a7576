package reporting

import (
	"errors"
	"math"
	"testing"

	"github.com/bbag/minedash/internal/domain/models"
)

func sampleRecords() []models.OperationalRecord {
	return []models.OperationalRecord{
		{Date: "2025-07-20", Volume: 1100, TargetM3: 1050, Ritase: 100, Pencapaian: 100, Eu: 80},
		{Date: "2025-07-31", Volume: 1250, TargetM3: 1050, Ritase: 110, Pencapaian: 120, Eu: 90},
		{Date: "2025-08-01", Volume: 950, TargetM3: 1050, Ritase: 90, Pencapaian: 80, Eu: 70},
		{Date: "2024-05-10", Volume: 500, TargetM3: 1000, Ritase: 50, Pencapaian: 50, Eu: 60},
	}
}

func TestComputeKPIs(t *testing.T) {
	kpis := ComputeKPIs(sampleRecords())
	if kpis.TotalVolume != 3800 || kpis.TotalRitase != 350 {
		t.Fatalf("unexpected totals %+v", kpis)
	}
	if kpis.AveragePencapaian != 87.5 || kpis.AverageEU != 75 {
		t.Fatalf("unexpected averages %+v", kpis)
	}

	empty := ComputeKPIs(nil)
	if empty != (models.KPIs{}) || math.IsNaN(empty.AverageEU) {
		t.Fatalf("empty input must give zeros, got %+v", empty)
	}
}

func TestFilterByRange(t *testing.T) {
	tests := []struct {
		name  string
		rng   DateRange
		dates []string
	}{
		{name: "unbounded", rng: DateRange{}, dates: []string{"2025-07-20", "2025-07-31", "2025-08-01", "2024-05-10"}},
		{name: "end day inclusive", rng: DateRange{Start: "2025-07-20", End: "2025-07-31"}, dates: []string{"2025-07-20", "2025-07-31"}},
		{name: "single day", rng: DateRange{Start: "2025-07-31", End: "2025-07-31"}, dates: []string{"2025-07-31"}},
		{name: "start only", rng: DateRange{Start: "2025-08-01"}, dates: []string{"2025-08-01"}},
		{name: "end only", rng: DateRange{End: "2024-12-31"}, dates: []string{"2024-05-10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterByRange(sampleRecords(), tt.rng)
			if err != nil {
				t.Fatalf("FilterByRange: %v", err)
			}
			if len(got) != len(tt.dates) {
				t.Fatalf("got %d records, want %d", len(got), len(tt.dates))
			}
			for i, d := range tt.dates {
				if got[i].Date != d {
					t.Fatalf("position %d: got %s want %s", i, got[i].Date, d)
				}
			}
		})
	}
}

func TestDateRangeValidate(t *testing.T) {
	var vErr *models.ValidationError
	if err := (DateRange{Start: "2025-08-01", End: "2025-07-01"}).Validate(); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for reversed range, got %v", err)
	}
	if err := (DateRange{Start: "01/08/2025"}).Validate(); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for malformed date, got %v", err)
	}
	if err := (DateRange{Start: "2025-07-01", End: "2025-07-01"}).Validate(); err != nil {
		t.Fatalf("single day range must be valid: %v", err)
	}
}

func TestMonthlySeries(t *testing.T) {
	series := MonthlySeries(sampleRecords())
	want := []models.SeriesPoint{
		{Key: "2024-05", Label: "Mei 24", Volume: 500, TargetM3: 1000},
		{Key: "2025-07", Label: "Jul 25", Volume: 2350, TargetM3: 2100},
		{Key: "2025-08", Label: "Agu 25", Volume: 950, TargetM3: 1050},
	}
	if len(series) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(series), len(want))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("bucket %d: got %+v want %+v", i, series[i], want[i])
		}
	}
}

func TestYearlySeries(t *testing.T) {
	series := YearlySeries(sampleRecords())
	if len(series) != 2 || series[0].Label != "2024" || series[1].Volume != 3300 {
		t.Fatalf("unexpected yearly series %+v", series)
	}
}

func TestDailyAndRecent(t *testing.T) {
	daily := DailySeries(sampleRecords())
	if daily[0].Date != "2024-05-10" || daily[len(daily)-1].Date != "2025-08-01" {
		t.Fatalf("daily series must be ascending, got %+v", daily)
	}

	recent := RecentEntries(sampleRecords(), 2)
	if len(recent) != 2 || recent[0].Date != "2025-08-01" || recent[1].Date != "2025-07-31" {
		t.Fatalf("unexpected recent entries %+v", recent)
	}
}

func TestBuildOperationalDashboard(t *testing.T) {
	dash, err := BuildOperationalDashboard(sampleRecords(), DateRange{Start: "2025-07-01", End: "2025-07-31"}, 0)
	if err != nil {
		t.Fatalf("BuildOperationalDashboard: %v", err)
	}
	if dash.Count != 2 || dash.KPIs.TotalVolume != 2350 || len(dash.Recent) != 2 || len(dash.Monthly) != 1 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}
