package repository

import (
	"context"

	"github.com/bbag/minedash/internal/domain/models"
)

// Safeguard values used by the delete-all operations so that no driver ever
// issues an unconditional delete.
const (
	SafeguardDate       = "1900-01-01"
	SafeguardEmployeeID = -1
)

// LogoKey is the settings key holding the company logo data URL.
const LogoKey = "companyLogo"

// OperationalStore persists daily production logs keyed by date.
type OperationalStore interface {
	// ListOperational returns every record, newest date first.
	ListOperational(ctx context.Context) ([]models.OperationalRecord, error)
	// InsertOperational stores the batch and returns the rows as stored.
	InsertOperational(ctx context.Context, records []models.OperationalRecord) ([]models.OperationalRecord, error)
	// UpdateOperational replaces the record stored under rec.Date.
	UpdateOperational(ctx context.Context, rec models.OperationalRecord) (models.OperationalRecord, error)
	DeleteOperational(ctx context.Context, date string) error
	DeleteAllOperational(ctx context.Context) error
}

// EmployeeStore persists employee profiles keyed by a store-assigned id.
type EmployeeStore interface {
	// ListEmployees returns every employee ordered by name.
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	// InsertEmployees assigns ids and creation times and returns the stored rows.
	InsertEmployees(ctx context.Context, employees []models.Employee) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
	DeleteAllEmployees(ctx context.Context) error
}

// SettingsStore is a small key-value store for client settings such as the logo.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// AnalysisStore keeps generated AI analyses.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, report models.AnalysisReport) error
	LatestAnalysis(ctx context.Context) (models.AnalysisReport, error)
}

// Store bundles every collection a driver provides.
type Store interface {
	OperationalStore
	EmployeeStore
	SettingsStore
	AnalysisStore
	Close(ctx context.Context) error
}
