package reconcile

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/metrics"
)

func operationalTable(rows ...models.Row) models.Table {
	return models.Table{Header: append([]string(nil), models.OperationalColumns...), Rows: rows}
}

func assertValidation(t *testing.T, err error, want string) {
	t.Helper()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError %q, got %v", want, err)
	}
	if verr.Msg != want {
		t.Fatalf("validation message = %q, want %q", verr.Msg, want)
	}
}

func TestOperationalSingleRow(t *testing.T) {
	r := New(Options{})

	rec, err := r.Operational(models.Row{
		"date": "2025-07-20", "pro": 18, "stb": 2, "bd": 4,
		"ritase": 100, "volume": 1100, "targetM3": 1050,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date != "2025-07-20" || rec.Wt != 24 || rec.Ua != 90 || rec.Eu != 75 || rec.AverageM3 != 11 {
		t.Fatalf("unexpected derived record %+v", rec)
	}
	if metrics.Stale(rec) {
		t.Fatal("reconciled record has stale derived fields")
	}
}

func TestOperationalSingleRowKeepsSuppliedTarget(t *testing.T) {
	r := New(Options{DefaultTargetM3: 1050})

	rec, err := r.Operational(models.Row{"date": "2025-07-20", "volume": 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.TargetM3 != 0 || rec.Pencapaian != 0 {
		t.Fatalf("manual path applied a default target: %+v", rec)
	}
}

func TestOperationalSingleRowMissingDate(t *testing.T) {
	r := New(Options{})
	_, err := r.Operational(models.Row{"pro": 1})
	assertValidation(t, err, "missing date")
}

func TestOperationalUpdateIgnoresRowDate(t *testing.T) {
	r := New(Options{})
	rec, err := r.OperationalUpdate("2025-07-20", models.Row{"date": "2030-01-01", "pro": 10, "bd": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date != "2025-07-20" || rec.Pa != 50 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestOperationalBatch(t *testing.T) {
	r := New(Options{DefaultTargetM3: 1050})

	excelDay := time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)
	recs, err := r.OperationalBatch(operationalTable(
		models.Row{"date": "2025-07-20", "pro": "18", "stb": "2", "bd": "4", "ritase": "100", "volume": "1100", "targetM3": "1050"},
		models.Row{"date": "2025-07-21", "pro": 20, "stb": 1, "bd": 3, "ritase": 110, "volume": 1250, "targetM3": ""},
		models.Row{"date": excelDay, "pro": "x", "stb": nil, "bd": 4, "ritase": 90.7, "volume": 950, "targetM3": 0},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	if math.Abs(recs[0].Pencapaian-104.76190476) > 1e-6 {
		t.Errorf("row 1 pencapaian = %v", recs[0].Pencapaian)
	}
	if recs[1].TargetM3 != 1050 {
		t.Errorf("row 2 target not defaulted: %v", recs[1].TargetM3)
	}
	if recs[2].Date != "2025-07-22" {
		t.Errorf("row 3 date = %q", recs[2].Date)
	}
	if recs[2].Pro != 0 || recs[2].Stb != 0 || recs[2].Ritase != 90 || recs[2].TargetM3 != 1050 {
		t.Errorf("row 3 defaults wrong: %+v", recs[2])
	}
	for _, rec := range recs {
		if metrics.Stale(rec) {
			t.Errorf("record %s has stale derived fields", rec.Date)
		}
	}
}

func TestOperationalBatchMissingColumn(t *testing.T) {
	r := New(Options{})
	table := models.Table{
		Header: []string{"date", "pro", "stb", "bd", "ritase", "targetM3"},
		Rows:   []models.Row{{"date": "2025-07-20"}},
	}
	recs, err := r.OperationalBatch(table)
	assertValidation(t, err, "missing required column volume")
	if recs != nil {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestOperationalBatchRejectsWholeBatch(t *testing.T) {
	r := New(Options{})
	recs, err := r.OperationalBatch(operationalTable(
		models.Row{"date": "2025-07-20", "volume": 1},
		models.Row{"date": "", "volume": 2},
	))
	assertValidation(t, err, "row 3: missing date")
	if recs != nil {
		t.Fatal("partial batch returned")
	}
}

func TestOperationalBatchEmpty(t *testing.T) {
	r := New(Options{})
	_, err := r.OperationalBatch(operationalTable())
	assertValidation(t, err, "empty import file")
}

func TestOperationalBatchDuplicatePolicies(t *testing.T) {
	rows := []models.Row{
		{"date": "2025-07-20", "volume": 100},
		{"date": "2025-07-21", "volume": 200},
		{"date": "2025-07-20", "volume": 300},
	}

	t.Run("forward", func(t *testing.T) {
		recs, err := New(Options{Duplicates: DuplicatesForward}).OperationalBatch(operationalTable(rows...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("expected all rows forwarded, got %d", len(recs))
		}
	})

	t.Run("reject", func(t *testing.T) {
		_, err := New(Options{Duplicates: DuplicatesReject}).OperationalBatch(operationalTable(rows...))
		assertValidation(t, err, "row 4: duplicate date 2025-07-20")
	})

	t.Run("keep-last", func(t *testing.T) {
		recs, err := New(Options{Duplicates: DuplicatesKeepLast}).OperationalBatch(operationalTable(rows...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("expected 2 records, got %d", len(recs))
		}
		if recs[0].Date != "2025-07-20" || recs[0].Volume != 300 {
			t.Fatalf("later row did not win: %+v", recs[0])
		}
	})
}

func TestParseDuplicatePolicy(t *testing.T) {
	if p, err := ParseDuplicatePolicy(""); err != nil || p != DuplicatesForward {
		t.Fatalf("empty policy = %v, %v", p, err)
	}
	if p, err := ParseDuplicatePolicy(" Keep-Last "); err != nil || p != DuplicatesKeepLast {
		t.Fatalf("keep-last policy = %v, %v", p, err)
	}
	if _, err := ParseDuplicatePolicy("merge"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
