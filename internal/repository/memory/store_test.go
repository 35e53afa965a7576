package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
)

func TestInsertOperationalRejectsDuplicateDates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(false)

	if _, err := store.InsertOperational(ctx, []models.OperationalRecord{{Date: "2025-07-20", Volume: 100}}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	batch := []models.OperationalRecord{{Date: "2025-07-21"}, {Date: "2025-07-20"}}
	if _, err := store.InsertOperational(ctx, batch); err == nil {
		t.Fatal("expected duplicate date error")
	}

	records, _ := store.ListOperational(ctx)
	if len(records) != 1 {
		t.Fatalf("failed batch must not write anything, got %d records", len(records))
	}

	if _, err := store.InsertOperational(ctx, []models.OperationalRecord{{Date: "2025-07-22"}, {Date: "2025-07-22"}}); err == nil {
		t.Fatal("expected duplicate within batch to fail")
	}
}

func TestInsertOperationalUpsertByDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(true)

	first, _ := store.InsertOperational(ctx, []models.OperationalRecord{{Date: "2025-07-20", Volume: 100}})
	second, err := store.InsertOperational(ctx, []models.OperationalRecord{{Date: "2025-07-20", Volume: 250}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("upsert should keep id %d, got %d", first[0].ID, second[0].ID)
	}

	records, _ := store.ListOperational(ctx)
	if len(records) != 1 || records[0].Volume != 250 {
		t.Fatalf("unexpected records after upsert: %+v", records)
	}
}

func TestListOperationalNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(false)
	_, _ = store.InsertOperational(ctx, []models.OperationalRecord{
		{Date: "2025-07-01"}, {Date: "2025-08-15"}, {Date: "2024-12-31"},
	})

	records, _ := store.ListOperational(ctx)
	want := []string{"2025-08-15", "2025-07-01", "2024-12-31"}
	for i, rec := range records {
		if rec.Date != want[i] {
			t.Fatalf("position %d: got %s want %s", i, rec.Date, want[i])
		}
	}
}

func TestOperationalNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore(false)

	if _, err := store.UpdateOperational(ctx, models.OperationalRecord{Date: "2025-01-01"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteOperational(ctx, "2025-01-01"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestEmployeesLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(false)
	created := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return created }

	stored, err := store.InsertEmployees(ctx, []models.Employee{{Nama: "Siti"}, {Nama: "Budi"}})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if stored[0].ID == stored[1].ID || stored[0].ID == 0 {
		t.Fatalf("expected distinct ids, got %d and %d", stored[0].ID, stored[1].ID)
	}

	list, _ := store.ListEmployees(ctx)
	if list[0].Nama != "Budi" || list[1].Nama != "Siti" {
		t.Fatalf("expected name order, got %s, %s", list[0].Nama, list[1].Nama)
	}

	update := stored[0]
	update.Posisi = "Operator"
	update.CreatedAt = time.Time{}
	got, err := store.UpdateEmployee(ctx, update)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("update must keep created_at, got %v", got.CreatedAt)
	}

	if err := store.DeleteAllEmployees(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if list, _ := store.ListEmployees(ctx); len(list) != 0 {
		t.Fatalf("expected empty store, got %d", len(list))
	}
	if err := store.DeleteEmployee(ctx, stored[0].ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsAndAnalyses(t *testing.T) {
	ctx := context.Background()
	store := NewStore(false)

	if _, err := store.GetSetting(ctx, "companyLogo"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_ = store.PutSetting(ctx, "companyLogo", "data:image/png;base64,AAA")
	if v, _ := store.GetSetting(ctx, "companyLogo"); v != "data:image/png;base64,AAA" {
		t.Fatalf("unexpected setting %q", v)
	}

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	_ = store.SaveAnalysis(ctx, models.AnalysisReport{ID: "b", CreatedAt: base.Add(time.Hour)})
	_ = store.SaveAnalysis(ctx, models.AnalysisReport{ID: "a", CreatedAt: base})
	latest, err := store.LatestAnalysis(ctx)
	if err != nil || latest.ID != "b" {
		t.Fatalf("expected latest b, got %+v (%v)", latest, err)
	}
}
