package reconcile

import (
	"math"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/metrics"
)

// Operational reconciles one manually submitted row. The date is required;
// numeric fields default to 0 and the target is taken as supplied.
func (r *Reconciler) Operational(row models.Row) (models.OperationalRecord, error) {
	date, err := operationalDate(row)
	if err != nil {
		return models.OperationalRecord{}, err
	}

	return buildOperational(date, row, NumberOr(row["targetM3"], 0)), nil
}

// OperationalUpdate reconciles an edit of the record stored under date. The
// date key is immutable, so any date in the row is ignored.
func (r *Reconciler) OperationalUpdate(date string, row models.Row) (models.OperationalRecord, error) {
	normalized, ok := NormalizeDate(date)
	if !ok {
		return models.OperationalRecord{}, models.Invalid("invalid date %q", date)
	}
	return buildOperational(normalized, row, NumberOr(row["targetM3"], 0)), nil
}

// OperationalBatch reconciles an imported table. The batch is rejected as a
// whole on the first invalid row.
func (r *Reconciler) OperationalBatch(table models.Table) ([]models.OperationalRecord, error) {
	if table.Len() == 0 {
		return nil, models.Invalid("empty import file")
	}
	for _, col := range models.OperationalColumns {
		if !table.HasColumn(col) {
			return nil, models.Invalid("missing required column %s", col)
		}
	}

	records := make([]models.OperationalRecord, 0, table.Len())
	index := make(map[string]int, table.Len())

	for i, row := range table.Rows {
		if !present(row["date"]) {
			return nil, models.Invalid("row %d: missing date", rowNumber(i))
		}
		date, ok := NormalizeDate(row["date"])
		if !ok {
			return nil, models.Invalid("row %d: invalid date %q", rowNumber(i), Text(row["date"]))
		}

		rec := buildOperational(date, row, NumberOr(row["targetM3"], r.defaultTarget))

		if prev, seen := index[date]; seen {
			switch r.duplicates {
			case DuplicatesReject:
				return nil, models.Invalid("row %d: duplicate date %s", rowNumber(i), date)
			case DuplicatesKeepLast:
				records[prev] = rec
				continue
			}
		}
		index[date] = len(records)
		records = append(records, rec)
	}

	return records, nil
}

func operationalDate(row models.Row) (string, error) {
	if !present(row["date"]) {
		return "", models.Invalid("missing date")
	}
	date, ok := NormalizeDate(row["date"])
	if !ok {
		return "", models.Invalid("invalid date %q", Text(row["date"]))
	}
	return date, nil
}

func buildOperational(date string, row models.Row, target float64) models.OperationalRecord {
	rec := models.OperationalRecord{
		Date:     date,
		Pro:      NumberOr(row["pro"], 0),
		Stb:      NumberOr(row["stb"], 0),
		Bd:       NumberOr(row["bd"], 0),
		Ritase:   int(math.Trunc(NumberOr(row["ritase"], 0))),
		Volume:   NumberOr(row["volume"], 0),
		TargetM3: target,
	}
	metrics.Apply(&rec)
	return rec
}
