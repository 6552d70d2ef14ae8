package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DatabaseQuerier interface for database operations
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresLoader reads the catalog from a table with the dataset's columns.
type PostgresLoader struct {
	db    DatabaseQuerier
	table string
}

func NewPostgresLoader(db DatabaseQuerier, table string) *PostgresLoader {
	if table == "" {
		table = "food_items"
	}
	return &PostgresLoader{db: db, table: table}
}

func (l *PostgresLoader) Load(ctx context.Context) ([]RawRecord, error) {
	query := fmt.Sprintf(`
		SELECT
			id::text,
			name,
			calories,
			proteins,
			fat,
			carbohydrate,
			image
		FROM %s
		ORDER BY id`, pgx.Identifier{l.table}.Sanitize())

	rows, err := l.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer rows.Close()

	var records []RawRecord
	for rows.Next() {
		var r RawRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Calories, &r.Proteins, &r.Fat, &r.Carbohydrate, &r.Image); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: table %s has no rows", ErrEmptyCatalog, l.table)
	}

	return records, nil
}
