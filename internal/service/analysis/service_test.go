package analysis

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/metrics"
	"github.com/bbag/minedash/internal/repository/memory"
	"github.com/bbag/minedash/internal/service/reporting"
	"github.com/bbag/minedash/pkg/clients/gemini"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
	calls  int
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(false)
	records := []models.OperationalRecord{
		{Date: "2025-07-20", Pro: 18, Stb: 2, Bd: 4, Ritase: 100, Volume: 1100, TargetM3: 1050},
		{Date: "2025-07-21", Pro: 20, Stb: 1, Bd: 3, Ritase: 110, Volume: 1250, TargetM3: 1050},
		{Date: "2025-08-02", Pro: 15, Stb: 5, Bd: 4, Ritase: 90, Volume: 950, TargetM3: 1050},
	}
	for i := range records {
		metrics.Apply(&records[i])
	}
	if _, err := store.InsertOperational(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestRunSavesReport(t *testing.T) {
	store := seededStore(t)
	gen := &stubGenerator{text: "Kinerja baik."}
	svc := NewService(gen, store, "real-key", nil)
	svc.now = func() time.Time { return time.Date(2025, 8, 3, 20, 0, 0, 0, time.UTC) }

	report, err := svc.Run(context.Background(), reporting.DateRange{Start: "2025-07-01", End: "2025-07-31"}, models.SourceManual)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Records != 2 || report.PeriodStart != "2025-07-20" || report.PeriodEnd != "2025-07-21" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.KPIs.TotalVolume != 2350 || report.Text != "Kinerja baik." || report.ID == "" {
		t.Fatalf("unexpected report content %+v", report)
	}
	if strings.Contains(gen.prompt, "2025-08-02") {
		t.Fatal("records outside the range must not reach the prompt")
	}

	latest, err := svc.Latest(context.Background())
	if err != nil || latest.ID != report.ID {
		t.Fatalf("expected saved report, got %+v (%v)", latest, err)
	}
}

func TestAnalyzeMissingKey(t *testing.T) {
	for _, key := range []string{"", "  ", "MASUKKAN_KUNCI_API_GEMINI_ANDA"} {
		gen := &stubGenerator{text: "x"}
		svc := NewService(gen, memory.NewStore(false), key, nil)

		_, err := svc.Analyze(context.Background(), []models.OperationalRecord{{Date: "2025-07-20"}})
		var extErr *models.ExternalServiceError
		if !errors.As(err, &extErr) || extErr.Kind != models.ExternalConfig {
			t.Fatalf("key %q: expected config error, got %v", key, err)
		}
		if gen.calls != 0 {
			t.Fatalf("key %q: generator must not be called", key)
		}
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	svc := NewService(&stubGenerator{}, memory.NewStore(false), "k", nil)
	_, err := svc.Analyze(context.Background(), nil)
	var vErr *models.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ExternalKind
	}{
		{name: "invalid key message", err: &gemini.APIError{StatusCode: 400, Message: "API key not valid. Please pass a valid API key."}, want: models.ExternalAuth},
		{name: "forbidden", err: &gemini.APIError{StatusCode: http.StatusForbidden, Message: "denied"}, want: models.ExternalAuth},
		{name: "unauthorized", err: &gemini.APIError{StatusCode: http.StatusUnauthorized}, want: models.ExternalAuth},
		{name: "permission text", err: errors.New("rpc: Permission Denied for project"), want: models.ExternalAuth},
		{name: "server error", err: &gemini.APIError{StatusCode: 500, Message: "internal"}, want: models.ExternalGeneric},
		{name: "network", err: errors.New("dial tcp: timeout"), want: models.ExternalGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var extErr *models.ExternalServiceError
			if !errors.As(Classify(tt.err), &extErr) {
				t.Fatal("expected ExternalServiceError")
			}
			if extErr.Kind != tt.want {
				t.Fatalf("kind = %s, want %s", extErr.Kind, tt.want)
			}
			if extErr.UserMessage() == "" {
				t.Fatal("user message must not be empty")
			}
		})
	}
}

func TestRunGeneratorFailureIsNotSaved(t *testing.T) {
	store := seededStore(t)
	svc := NewService(&stubGenerator{err: &gemini.APIError{StatusCode: 503}}, store, "k", nil)

	_, err := svc.Run(context.Background(), reporting.DateRange{}, models.SourceManual)
	var extErr *models.ExternalServiceError
	if !errors.As(err, &extErr) || extErr.Kind != models.ExternalGeneric {
		t.Fatalf("expected generic external error, got %v", err)
	}
	if _, err := store.LatestAnalysis(context.Background()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("nothing should be saved, got %v", err)
	}
}

func TestBuildPromptRoundsFigures(t *testing.T) {
	rec := models.OperationalRecord{Date: "2025-07-20", Volume: 1100, TargetM3: 1050, Pencapaian: 104.76190476}
	prompt, err := BuildPrompt([]models.OperationalRecord{rec})
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(prompt, `"pencapaian": 104.76`) || strings.Contains(prompt, "104.7619") {
		t.Fatalf("expected rounded pencapaian in prompt:\n%s", prompt)
	}
	for _, want := range []string{"PENCAPAIAN", "BD", "STB", "Rekomendasi"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q", want)
		}
	}
}
