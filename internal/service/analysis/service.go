package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/metrics"
	"github.com/bbag/minedash/internal/repository"
	"github.com/bbag/minedash/internal/service/reporting"
	"github.com/bbag/minedash/pkg/clients/gemini"
)

// Placeholder fragments found in unconfigured deployment templates.
var placeholderKeys = []string{"MASUKKAN_KUNCI_API_GEMINI_ANDA", "YOUR_API_KEY", "CHANGE_ME"}

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Store is the persistence the service needs.
type Store interface {
	repository.AnalysisStore
	ListOperational(ctx context.Context) ([]models.OperationalRecord, error)
}

// Service turns operational logs into an AI written management report.
type Service struct {
	generator  TextGenerator
	store      Store
	configured bool
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the analysis service. apiKey is only inspected to detect a
// missing or placeholder credential before any call is made.
func NewService(generator TextGenerator, store Store, apiKey string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator:  generator,
		store:      store,
		configured: KeyConfigured(apiKey),
		logger:     logger,
		now:        time.Now,
	}
}

// KeyConfigured reports whether key looks like a real credential.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	for _, p := range placeholderKeys {
		if strings.Contains(key, p) {
			return false
		}
	}
	return true
}

// Run analyses the stored records inside rng and saves the resulting report.
func (s *Service) Run(ctx context.Context, rng reporting.DateRange, source string) (models.AnalysisReport, error) {
	if err := rng.Validate(); err != nil {
		return models.AnalysisReport{}, err
	}

	records, err := s.store.ListOperational(ctx)
	if err != nil {
		return models.AnalysisReport{}, models.Persistence("list operational data", err)
	}
	records, err = reporting.FilterByRange(records, rng)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	report, err := s.Analyze(ctx, records)
	if err != nil {
		return models.AnalysisReport{}, err
	}
	report.Source = source

	if err := s.store.SaveAnalysis(ctx, report); err != nil {
		return models.AnalysisReport{}, models.Persistence("save analysis", err)
	}

	s.logger.Info("analysis generated",
		zap.String("id", report.ID),
		zap.String("source", source),
		zap.Int("records", report.Records),
	)
	return report, nil
}

// Analyze sends records to the text generator without touching the store.
func (s *Service) Analyze(ctx context.Context, records []models.OperationalRecord) (models.AnalysisReport, error) {
	if !s.configured || s.generator == nil {
		return models.AnalysisReport{}, &models.ExternalServiceError{
			Kind: models.ExternalConfig,
			Err:  errors.New("gemini api key is not configured"),
		}
	}
	if len(records) == 0 {
		return models.AnalysisReport{}, models.Invalid("no operational data to analyse")
	}

	prompt, err := BuildPrompt(records)
	if err != nil {
		return models.AnalysisReport{}, err
	}

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		classified := Classify(err)
		s.logger.Warn("analysis request failed", zap.Error(err))
		return models.AnalysisReport{}, classified
	}

	start, end := period(records)
	return models.AnalysisReport{
		ID:          uuid.NewString(),
		PeriodStart: start,
		PeriodEnd:   end,
		Records:     len(records),
		KPIs:        reporting.ComputeKPIs(records),
		Text:        text,
		CreatedAt:   s.now().UTC(),
	}, nil
}

// Latest returns the most recent stored report.
func (s *Service) Latest(ctx context.Context) (models.AnalysisReport, error) {
	report, err := s.store.LatestAnalysis(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return models.AnalysisReport{}, err
	}
	if err != nil {
		return models.AnalysisReport{}, models.Persistence("latest analysis", err)
	}
	return report, nil
}

// Classify maps a generator failure onto an ExternalServiceError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	kind := models.ExternalGeneric

	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		kind = models.ExternalAuth
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "api key not valid") || strings.Contains(msg, "permission denied") {
		kind = models.ExternalAuth
	}

	return &models.ExternalServiceError{Kind: kind, Err: err}
}

// BuildPrompt embeds the records as JSON, figures rounded to two decimals,
// under the fixed analysis rubric.
func BuildPrompt(records []models.OperationalRecord) (string, error) {
	rounded := make([]models.OperationalRecord, len(records))
	for i, r := range records {
		r.Pro, r.Stb, r.Bd = metrics.Round2(r.Pro), metrics.Round2(r.Stb), metrics.Round2(r.Bd)
		r.Volume, r.TargetM3 = metrics.Round2(r.Volume), metrics.Round2(r.TargetM3)
		r.Wt, r.Pa, r.Ua, r.Ma, r.Eu = metrics.Round2(r.Wt), metrics.Round2(r.Pa), metrics.Round2(r.Ua), metrics.Round2(r.Ma), metrics.Round2(r.Eu)
		r.AverageM3, r.Pencapaian = metrics.Round2(r.AverageM3), metrics.Round2(r.Pencapaian)
		rounded[i] = r
	}

	data, err := json.MarshalIndent(rounded, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode operational data: %w", err)
	}

	return fmt.Sprintf(promptTemplate, string(data)), nil
}

const promptTemplate = `Anda adalah manajer operasional tambang senior. Analisis log operasional harian di bawah ini dan tulis laporan yang singkat, tajam dan profesional.

Susun laporan dalam poin-poin berikut:
1. Ringkasan kinerja: gambaran umum periode ini dan apakah target volume tercapai.
2. Hari terbaik dan terendah: tanggal dengan PENCAPAIAN tertinggi dan terendah.
3. Kemungkinan penyebab: untuk hari terendah, jelaskan penyebab yang paling mungkin dari data, misalnya jam breakdown (BD) atau standby (STB) yang tinggi.
4. Rekomendasi: satu langkah konkret untuk meningkatkan efisiensi atau mengatasi masalah tersebut.

Data log operasional harian:
%s
`

func period(records []models.OperationalRecord) (string, string) {
	var start, end string
	for _, r := range records {
		if start == "" || r.Date < start {
			start = r.Date
		}
		if r.Date > end {
			end = r.Date
		}
	}
	return start, end
}
