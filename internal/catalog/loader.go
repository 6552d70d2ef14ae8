package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/internal/validation"
	"github.com/temcen/nutrirec/pkg/models"
)

// Loader delivers raw catalog rows from some dataset source.
type Loader interface {
	Load(ctx context.Context) ([]RawRecord, error)
}

// Column names every tabular source must provide.
const (
	ColumnID    = "id"
	ColumnName  = "name"
	ColumnImage = "image"
)

var requiredColumns = []string{
	ColumnID, models.FieldCalories, models.FieldProteins, models.FieldFat,
	models.FieldCarbohydrate, ColumnName, ColumnImage,
}

// Cell values treated as missing, matching common dataframe defaults.
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// NewLoader returns the loader selected by cfg.Catalog.Source. pool is only
// used by the postgres source.
func NewLoader(cfg *config.Config, pool *pgxpool.Pool) (Loader, error) {
	switch cfg.Catalog.Source {
	case "csv":
		return NewCSVLoader(cfg.Catalog.Path), nil
	case "xlsx":
		return NewXLSXLoader(cfg.Catalog.Path, cfg.Catalog.Sheet), nil
	case "json":
		return NewJSONLoader(cfg.Catalog.Path, validation.NewSchemaValidator()), nil
	case "remote":
		return NewRemoteLoader(cfg.Catalog.URL, cfg.Catalog.Timeout), nil
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres catalog source requires a database connection")
		}
		return NewPostgresLoader(pool, cfg.Catalog.Table), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// rowDecoder maps tabular rows onto RawRecord by header name.
type rowDecoder struct {
	source  string
	columns map[string]int
}

func newRowDecoder(source string, header []string) (*rowDecoder, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s has no %q column", ErrMissingColumn, source, col)
		}
	}

	return &rowDecoder{source: source, columns: columns}, nil
}

func (d *rowDecoder) decode(line int, cells []string) (RawRecord, error) {
	var record RawRecord
	var err error

	record.ID = d.text(cells, ColumnID)
	record.Name = d.text(cells, ColumnName)
	record.Image = d.text(cells, ColumnImage)

	if record.Calories, err = d.number(line, cells, models.FieldCalories); err != nil {
		return RawRecord{}, err
	}
	if record.Proteins, err = d.number(line, cells, models.FieldProteins); err != nil {
		return RawRecord{}, err
	}
	if record.Fat, err = d.number(line, cells, models.FieldFat); err != nil {
		return RawRecord{}, err
	}
	if record.Carbohydrate, err = d.number(line, cells, models.FieldCarbohydrate); err != nil {
		return RawRecord{}, err
	}

	return record, nil
}

func (d *rowDecoder) cell(cells []string, column string) (string, bool) {
	i := d.columns[column]
	// Spreadsheet rows drop trailing empty cells
	if i >= len(cells) {
		return "", false
	}
	value := cells[i]
	if missingMarkers[strings.TrimSpace(value)] {
		return "", false
	}
	return value, true
}

func (d *rowDecoder) text(cells []string, column string) *string {
	value, ok := d.cell(cells, column)
	if !ok {
		return nil
	}
	return &value
}

func (d *rowDecoder) number(line int, cells []string, column string) (*float64, error) {
	value, ok := d.cell(cells, column)
	if !ok {
		return nil, nil
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s line %d: %s value %q is not numeric", ErrInvalidRecord, d.source, line, column, value)
	}
	return &parsed, nil
}
