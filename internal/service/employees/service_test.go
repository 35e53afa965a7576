package employees

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/reconcile"
	"github.com/bbag/minedash/internal/repository/memory"
	"github.com/bbag/minedash/internal/spreadsheet"
)

type stubSheets struct {
	table models.Table
}

func (s stubSheets) ReadTable(ctx context.Context, sheet string) (models.Table, error) {
	return s.table, nil
}

func newService(sheets TableReader) *Service {
	return NewService(memory.NewStore(false), reconcile.New(reconcile.Options{}), sheets, nil)
}

func TestCreateRequiresIdentity(t *testing.T) {
	svc := newService(nil)

	_, err := svc.Create(context.Background(), models.Row{"nama": "Budi"})
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	emp, err := svc.Create(context.Background(), models.Row{"nama": "Budi", "nik": 3201234567890001, "posisi": "Operator"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if emp.ID == 0 || emp.NIK != "3201234567890001" || emp.Status != models.StatusAktif {
		t.Fatalf("unexpected employee %+v", emp)
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	created, _ := svc.Create(ctx, models.Row{"nama": "Budi", "nik": "1", "posisi": "Operator"})

	updated, err := svc.Update(ctx, created.ID, models.Row{"nama": "Budi", "nik": "1", "posisi": "Foreman", "status": models.StatusTidakAktif})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID || updated.Posisi != "Foreman" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, models.Row{"nama": "X", "nik": "2", "posisi": "Y"}); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestImportWorkbookTemplate(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)

	buf, _, err := spreadsheet.Template(spreadsheet.KindEmployees)
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if _, err := svc.ImportWorkbook(ctx, bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	list, _ := svc.List(ctx)
	if len(list) != 3 || list[0].Nama != "Agus Wijaya" {
		t.Fatalf("expected 3 employees ordered by name, got %+v", list)
	}

	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
}

func TestImportWorkbookRejectsGarbage(t *testing.T) {
	svc := newService(nil)
	_, err := svc.ImportWorkbook(context.Background(), bytes.NewReader([]byte("not a workbook")))
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestImportSheet(t *testing.T) {
	ctx := context.Background()
	if _, err := newService(nil).ImportSheet(ctx, ""); !errors.Is(err, models.ErrSheetsDisabled) {
		t.Fatalf("expected ErrSheetsDisabled, got %v", err)
	}

	svc := newService(stubSheets{table: models.Table{
		Header: []string{"nama", "nik", "posisi"},
		Rows:   []models.Row{{"nama": "Siti", "nik": "2", "posisi": "HR"}},
	}})
	stored, err := svc.ImportSheet(ctx, "")
	if err != nil || len(stored) != 1 {
		t.Fatalf("ImportSheet: %v (%d)", err, len(stored))
	}
}
