package reporting

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bbag/minedash/internal/domain/models"
)

// Store is the read side the dashboards need.
type Store interface {
	ListOperational(ctx context.Context) ([]models.OperationalRecord, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

// Service loads collections from the store and reduces them into dashboards.
type Service struct {
	store      Store
	recentRows int
	logger     *zap.Logger
}

// NewService builds a reporting service showing recentRows entries in the
// recent table.
func NewService(store Store, recentRows int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recentRows <= 0 {
		recentRows = DefaultRecentRows
	}
	return &Service{store: store, recentRows: recentRows, logger: logger}
}

// OperationalDashboard builds the production dashboard for rng.
func (s *Service) OperationalDashboard(ctx context.Context, rng DateRange) (models.OperationalDashboard, error) {
	if err := rng.Validate(); err != nil {
		return models.OperationalDashboard{}, err
	}
	records, err := s.store.ListOperational(ctx)
	if err != nil {
		return models.OperationalDashboard{}, models.Persistence("list operational data", err)
	}
	return BuildOperationalDashboard(records, rng, s.recentRows)
}

// EmployeeDashboard builds the HR dashboard, listing employees that match
// term and status.
func (s *Service) EmployeeDashboard(ctx context.Context, term, status string) (models.EmployeeDashboard, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return models.EmployeeDashboard{}, models.Persistence("list employees", err)
	}
	return BuildEmployeeDashboard(employees, term, status), nil
}

// Snapshot loads both collections concurrently.
func (s *Service) Snapshot(ctx context.Context) ([]models.OperationalRecord, []models.Employee, error) {
	var (
		records   []models.OperationalRecord
		employees []models.Employee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.store.ListOperational(gctx)
		return models.Persistence("list operational data", err)
	})
	g.Go(func() error {
		var err error
		employees, err = s.store.ListEmployees(gctx)
		return models.Persistence("list employees", err)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("snapshot loaded",
		zap.Int("operational", len(records)),
		zap.Int("employees", len(employees)),
	)
	return records, employees, nil
}
