package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/config"
	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/service/reporting"
)

// weeklyWindow is how many calendar days the scheduled analysis covers,
// today included.
const weeklyWindow = 7

// Analyzer generates and stores an analysis for a date range.
type Analyzer interface {
	Run(ctx context.Context, rng reporting.DateRange, source string) (models.AnalysisReport, error)
}

// Notifier delivers a finished report to a person.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	analyzer Analyzer
	notifier Notifier
	cfg      config.ReportingConfig
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone. notifier may be nil.
func NewScheduler(cfg config.ReportingConfig, analyzer Analyzer, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		analyzer: analyzer,
		notifier: notifier,
		cfg:      cfg,
		location: loc,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start registers the weekly analysis and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runWeeklyAnalysis); err != nil {
		return fmt.Errorf("schedule weekly analysis %q: %w", s.cfg.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// WeeklyRange returns the last seven calendar days ending on the day of now
// in loc.
func WeeklyRange(now time.Time, loc *time.Location) reporting.DateRange {
	today := now.In(loc)
	start := today.AddDate(0, 0, -(weeklyWindow - 1))
	return reporting.DateRange{
		Start: start.Format("2006-01-02"),
		End:   today.Format("2006-01-02"),
	}
}

func (s *Scheduler) runWeeklyAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunWeeklyAnalysis(ctx); err != nil {
		s.logger.Error("failed to generate weekly analysis", zap.Error(err))
	}
}

// RunWeeklyAnalysis analyses the last seven days, stores the report and
// sends it to the notifier when one is set.
func (s *Scheduler) RunWeeklyAnalysis(ctx context.Context) error {
	rng := WeeklyRange(s.now(), s.location)
	s.logger.Info("generating weekly analysis", zap.String("start", rng.Start), zap.String("end", rng.End))

	report, err := s.analyzer.Run(ctx, rng, models.SourceScheduled)
	if err != nil {
		return err
	}

	s.logger.Info("weekly analysis stored", zap.String("id", report.ID), zap.Int("records", report.Records))

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Notify(ctx, FormatReport(report)); err != nil {
		return fmt.Errorf("deliver weekly analysis %s: %w", report.ID, err)
	}
	s.logger.Info("weekly analysis delivered", zap.String("id", report.ID))
	return nil
}

// FormatReport renders a report as a plain text message.
func FormatReport(report models.AnalysisReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Analisis Produksi %s s/d %s*\n", report.PeriodStart, report.PeriodEnd)
	fmt.Fprintf(&sb, "Total volume: %.2f m3\n", report.KPIs.TotalVolume)
	fmt.Fprintf(&sb, "Rata-rata pencapaian: %.2f%%\n", report.KPIs.AveragePencapaian)
	fmt.Fprintf(&sb, "Total ritase: %d\n", report.KPIs.TotalRitase)
	fmt.Fprintf(&sb, "Rata-rata EU: %.2f%%\n\n", report.KPIs.AverageEU)
	sb.WriteString(report.Text)
	return sb.String()
}
