package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/temcen/nutrirec/internal/validation"
)

// JSONLoader reads an array of food records from a JSON document. The
// document is checked against the food catalog schema before decoding.
type JSONLoader struct {
	path      string
	validator *validation.SchemaValidator
}

func NewJSONLoader(path string, validator *validation.SchemaValidator) *JSONLoader {
	return &JSONLoader{path: path, validator: validator}
}

type jsonRecord struct {
	ID           json.RawMessage `json:"id"`
	Name         *string         `json:"name"`
	Calories     *float64        `json:"calories"`
	Proteins     *float64        `json:"proteins"`
	Fat          *float64        `json:"fat"`
	Carbohydrate *float64        `json:"carbohydrate"`
	Image        *string         `json:"image"`
}

func (l *JSONLoader) Load(ctx context.Context) ([]RawRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}

	return decodeJSONCatalog(data, l.validator)
}

func decodeJSONCatalog(data []byte, validator *validation.SchemaValidator) ([]RawRecord, error) {
	if result := validator.ValidateFoodCatalog(data); !result.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, result.Err())
	}

	var rows []jsonRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyCatalog
	}

	records := make([]RawRecord, len(rows))
	for i, row := range rows {
		records[i] = RawRecord{
			ID:           jsonID(row.ID),
			Name:         row.Name,
			Calories:     row.Calories,
			Proteins:     row.Proteins,
			Fat:          row.Fat,
			Carbohydrate: row.Carbohydrate,
			Image:        row.Image,
		}
	}

	return records, nil
}

// jsonID accepts string or numeric ids.
func jsonID(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}

	s = string(raw)
	return &s
}
