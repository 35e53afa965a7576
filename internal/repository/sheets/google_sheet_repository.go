package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/bbag/minedash/internal/config"
	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/spreadsheet"
)

// Repository reads and writes whole tabs of a Google spreadsheet as tables.
type Repository interface {
	ReadTable(ctx context.Context, sheet string) (models.Table, error)
	WriteTable(ctx context.Context, sheet string, header []string, rows [][]interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReadTable fetches every used cell of the tab. Values are requested
// unformatted with dates as serial numbers, which the table conversion
// turns back into dates for the known date columns.
func (r *GoogleSheetRepository) ReadTable(ctx context.Context, sheet string) (models.Table, error) {
	sheetRange, err := tabRange(sheet)
	if err != nil {
		return models.Table{}, err
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return models.Table{}, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	table := spreadsheet.TableFromGrid(resp.Values, spreadsheet.DateColumns...)
	r.logger.Debug("sheet read", zap.String("range", sheetRange), zap.Int("rows", table.Len()))
	return table, nil
}

// WriteTable replaces the content of the tab with header and rows.
func (r *GoogleSheetRepository) WriteTable(ctx context.Context, sheet string, header []string, rows [][]interface{}) error {
	sheetRange, err := tabRange(sheet)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	values = append(values, rows...)

	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, sheetRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", sheetRange, err)
	}

	payload := &sheetsapi.ValueRange{Values: values}
	if _, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("write range %s: %w", sheetRange, err)
	}

	r.logger.Debug("sheet written", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

func tabRange(sheet string) (string, error) {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return "", fmt.Errorf("sheet must not be empty")
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'", nil
}
