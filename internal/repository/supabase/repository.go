package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/config"
	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/repository"
)

const (
	operationalTable = "operational_data"
	employeeTable    = "karyawan"
	settingsTable    = "app_settings"
	analysisTable    = "analysis_reports"

	preferRepresentation = "return=representation"
	preferMerge          = "resolution=merge-duplicates,return=representation"
)

// SupabaseRepository implements repository.Store against a hosted PostgREST
// endpoint.
type SupabaseRepository struct {
	httpClient   *resty.Client
	upsertByDate bool
	logger       *zap.Logger
}

var _ repository.Store = (*SupabaseRepository)(nil)

// apiError mirrors a PostgREST error payload.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewSupabaseRepository builds a resty client authenticated with the anon key.
func NewSupabaseRepository(cfg config.SupabaseConfig, upsertByDate bool, logger *zap.Logger) *SupabaseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimSuffix(cfg.URL, "/")
	client := resty.New().
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AnonKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &SupabaseRepository{httpClient: client, upsertByDate: upsertByDate, logger: logger}
}

func (r *SupabaseRepository) request(ctx context.Context) *resty.Request {
	return r.httpClient.R().SetContext(ctx).SetError(new(apiError))
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	message := resp.Status()
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil && apiErr.Message != "" {
		message = apiErr.Message
		if apiErr.Code != "" {
			message = fmt.Sprintf("%s (code=%s)", message, apiErr.Code)
		}
	}
	return fmt.Errorf("%s: supabase error: status=%d, message=%s", op, resp.StatusCode(), message)
}

// ListOperational returns every record, newest date first.
func (r *SupabaseRepository) ListOperational(ctx context.Context) ([]models.OperationalRecord, error) {
	var records []models.OperationalRecord
	resp, err := r.request(ctx).
		SetQueryParams(map[string]string{"select": "*", "order": "date.desc"}).
		SetResult(&records).
		Get(operationalTable)
	if err := checkResponse("list operational data", resp, err); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.OperationalRecord{}
	}
	return records, nil
}

func (r *SupabaseRepository) InsertOperational(ctx context.Context, records []models.OperationalRecord) ([]models.OperationalRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	body := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		row, err := payload(rec, "id")
		if err != nil {
			return nil, err
		}
		body = append(body, row)
	}

	req := r.request(ctx).SetBody(body)
	if r.upsertByDate {
		req.SetHeader("Prefer", preferMerge).SetQueryParam("on_conflict", "date")
	} else {
		req.SetHeader("Prefer", preferRepresentation)
	}

	var stored []models.OperationalRecord
	resp, err := req.SetResult(&stored).Post(operationalTable)
	if err := checkResponse("insert operational data", resp, err); err != nil {
		return nil, err
	}
	r.logger.Debug("operational batch inserted", zap.Int("rows", len(stored)))
	return stored, nil
}

func (r *SupabaseRepository) UpdateOperational(ctx context.Context, rec models.OperationalRecord) (models.OperationalRecord, error) {
	body, err := payload(rec, "id", "date")
	if err != nil {
		return models.OperationalRecord{}, err
	}

	var updated []models.OperationalRecord
	resp, err := r.request(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetQueryParam("date", "eq."+rec.Date).
		SetBody(body).
		SetResult(&updated).
		Patch(operationalTable)
	if err := checkResponse("update operational data", resp, err); err != nil {
		return models.OperationalRecord{}, err
	}
	if len(updated) == 0 {
		return models.OperationalRecord{}, models.ErrNotFound
	}
	return updated[0], nil
}

func (r *SupabaseRepository) DeleteOperational(ctx context.Context, date string) error {
	return r.deleteOne(ctx, operationalTable, "date", "eq."+date)
}

func (r *SupabaseRepository) DeleteAllOperational(ctx context.Context) error {
	resp, err := r.request(ctx).
		SetQueryParam("date", "neq."+repository.SafeguardDate).
		Delete(operationalTable)
	return checkResponse("delete all operational data", resp, err)
}

// ListEmployees returns every employee ordered by name.
func (r *SupabaseRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	resp, err := r.request(ctx).
		SetQueryParams(map[string]string{"select": "*", "order": "nama.asc"}).
		SetResult(&employees).
		Get(employeeTable)
	if err := checkResponse("list employees", resp, err); err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

func (r *SupabaseRepository) InsertEmployees(ctx context.Context, employees []models.Employee) ([]models.Employee, error) {
	if len(employees) == 0 {
		return nil, nil
	}

	body := make([]map[string]interface{}, 0, len(employees))
	for _, emp := range employees {
		row, err := payload(emp, "id", "created_at")
		if err != nil {
			return nil, err
		}
		body = append(body, row)
	}

	var stored []models.Employee
	resp, err := r.request(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetBody(body).
		SetResult(&stored).
		Post(employeeTable)
	if err := checkResponse("insert employees", resp, err); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *SupabaseRepository) UpdateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error) {
	body, err := payload(emp, "id", "created_at")
	if err != nil {
		return models.Employee{}, err
	}

	var updated []models.Employee
	resp, err := r.request(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetQueryParam("id", "eq."+strconv.FormatInt(emp.ID, 10)).
		SetBody(body).
		SetResult(&updated).
		Patch(employeeTable)
	if err := checkResponse("update employee", resp, err); err != nil {
		return models.Employee{}, err
	}
	if len(updated) == 0 {
		return models.Employee{}, models.ErrNotFound
	}
	return updated[0], nil
}

func (r *SupabaseRepository) DeleteEmployee(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, employeeTable, "id", "eq."+strconv.FormatInt(id, 10))
}

func (r *SupabaseRepository) DeleteAllEmployees(ctx context.Context) error {
	resp, err := r.request(ctx).
		SetQueryParam("id", "neq."+strconv.Itoa(repository.SafeguardEmployeeID)).
		Delete(employeeTable)
	return checkResponse("delete all employees", resp, err)
}

func (r *SupabaseRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var rows []struct {
		Value string `json:"value"`
	}
	resp, err := r.request(ctx).
		SetQueryParams(map[string]string{"select": "value", "key": "eq." + key}).
		SetResult(&rows).
		Get(settingsTable)
	if err := checkResponse("get setting", resp, err); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", models.ErrNotFound
	}
	return rows[0].Value, nil
}

func (r *SupabaseRepository) PutSetting(ctx context.Context, key, value string) error {
	resp, err := r.request(ctx).
		SetHeader("Prefer", preferMerge).
		SetQueryParam("on_conflict", "key").
		SetBody([]map[string]string{{"key": key, "value": value}}).
		Post(settingsTable)
	return checkResponse("put setting", resp, err)
}

func (r *SupabaseRepository) SaveAnalysis(ctx context.Context, report models.AnalysisReport) error {
	resp, err := r.request(ctx).SetBody(report).Post(analysisTable)
	return checkResponse("save analysis", resp, err)
}

func (r *SupabaseRepository) LatestAnalysis(ctx context.Context) (models.AnalysisReport, error) {
	var reports []models.AnalysisReport
	resp, err := r.request(ctx).
		SetQueryParams(map[string]string{"select": "*", "order": "created_at.desc", "limit": "1"}).
		SetResult(&reports).
		Get(analysisTable)
	if err := checkResponse("latest analysis", resp, err); err != nil {
		return models.AnalysisReport{}, err
	}
	if len(reports) == 0 {
		return models.AnalysisReport{}, models.ErrNotFound
	}
	return reports[0], nil
}

// Close is a no-op; the HTTP client holds no connection state worth releasing.
func (r *SupabaseRepository) Close(ctx context.Context) error {
	return nil
}

func (r *SupabaseRepository) deleteOne(ctx context.Context, table, column, filter string) error {
	var deleted []map[string]interface{}
	resp, err := r.request(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetQueryParam(column, filter).
		SetResult(&deleted).
		Delete(table)
	if err := checkResponse("delete from "+table, resp, err); err != nil {
		return err
	}
	if len(deleted) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// payload encodes v as a JSON object without the given keys.
func payload(v interface{}, omit ...string) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var row map[string]interface{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	for _, key := range omit {
		delete(row, key)
	}
	return row, nil
}
