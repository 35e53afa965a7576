package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/repository"
)

// Store is an in-process implementation of repository.Store guarded by a
// read-write mutex. It enforces the one-record-per-date rule the way a
// unique index would.
type Store struct {
	mu           sync.RWMutex
	operational  map[string]models.OperationalRecord
	employees    map[int64]models.Employee
	settings     map[string]string
	analyses     []models.AnalysisReport
	nextOpID     int64
	nextEmpID    int64
	upsertByDate bool
	now          func() time.Time
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store. With upsertByDate, inserting an existing
// date replaces it instead of failing.
func NewStore(upsertByDate bool) *Store {
	return &Store{
		operational:  make(map[string]models.OperationalRecord),
		employees:    make(map[int64]models.Employee),
		settings:     make(map[string]string),
		upsertByDate: upsertByDate,
		now:          time.Now,
	}
}

// ListOperational returns every record, newest date first.
func (s *Store) ListOperational(ctx context.Context) ([]models.OperationalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.OperationalRecord, 0, len(s.operational))
	for _, rec := range s.operational {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	return records, nil
}

// InsertOperational stores the batch atomically: on a duplicate date nothing
// is written unless the store upserts by date.
func (s *Store) InsertOperational(ctx context.Context, records []models.OperationalRecord) ([]models.OperationalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.upsertByDate {
		seen := make(map[string]struct{}, len(records))
		for _, rec := range records {
			if _, exists := s.operational[rec.Date]; exists {
				return nil, fmt.Errorf("duplicate key value violates unique constraint on date %s", rec.Date)
			}
			if _, dup := seen[rec.Date]; dup {
				return nil, fmt.Errorf("duplicate key value violates unique constraint on date %s", rec.Date)
			}
			seen[rec.Date] = struct{}{}
		}
	}

	stored := make([]models.OperationalRecord, 0, len(records))
	for _, rec := range records {
		if existing, ok := s.operational[rec.Date]; ok {
			rec.ID = existing.ID
		} else {
			s.nextOpID++
			rec.ID = s.nextOpID
		}
		s.operational[rec.Date] = rec
		stored = append(stored, rec)
	}
	return stored, nil
}

// UpdateOperational replaces the record stored under rec.Date.
func (s *Store) UpdateOperational(ctx context.Context, rec models.OperationalRecord) (models.OperationalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.operational[rec.Date]
	if !ok {
		return models.OperationalRecord{}, models.ErrNotFound
	}
	rec.ID = existing.ID
	s.operational[rec.Date] = rec
	return rec, nil
}

func (s *Store) DeleteOperational(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.operational[date]; !ok {
		return models.ErrNotFound
	}
	delete(s.operational, date)
	return nil
}

func (s *Store) DeleteAllOperational(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for date := range s.operational {
		if date != repository.SafeguardDate {
			delete(s.operational, date)
		}
	}
	return nil
}

// ListEmployees returns every employee ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]models.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].Nama != employees[j].Nama {
			return employees[i].Nama < employees[j].Nama
		}
		return employees[i].ID < employees[j].ID
	})
	return employees, nil
}

func (s *Store) InsertEmployees(ctx context.Context, employees []models.Employee) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	stored := make([]models.Employee, 0, len(employees))
	for _, emp := range employees {
		s.nextEmpID++
		emp.ID = s.nextEmpID
		emp.CreatedAt = now
		s.employees[emp.ID] = emp
		stored = append(stored, emp)
	}
	return stored, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.employees[emp.ID]
	if !ok {
		return models.Employee{}, models.ErrNotFound
	}
	emp.CreatedAt = existing.CreatedAt
	s.employees[emp.ID] = emp
	return emp, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *Store) DeleteAllEmployees(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.employees {
		if id != repository.SafeguardEmployeeID {
			delete(s.employees, id)
		}
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[key]
	if !ok {
		return "", models.ErrNotFound
	}
	return value, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}

func (s *Store) SaveAnalysis(ctx context.Context, report models.AnalysisReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses = append(s.analyses, report)
	return nil
}

// LatestAnalysis returns the most recently created analysis.
func (s *Store) LatestAnalysis(ctx context.Context) (models.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.analyses) == 0 {
		return models.AnalysisReport{}, models.ErrNotFound
	}
	latest := s.analyses[0]
	for _, r := range s.analyses[1:] {
		if !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	return latest, nil
}

// Close is a no-op.
func (s *Store) Close(ctx context.Context) error {
	return nil
}
