package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogColumns = []string{"id", "name", "calories", "proteins", "fat", "carbohydrate", "image"}

func TestPostgresLoader_Load(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	loader := NewPostgresLoader(mockDB, "")

	t.Run("successful load", func(t *testing.T) {
		rows := pgxmock.NewRows(catalogColumns).
			AddRow(str("1"), str("Nasi Goreng"), num(300), num(5), num(8), num(40), str("https://img/1.jpg")).
			AddRow(str("2"), str("Salad"), (*float64)(nil), num(2), num(1), num(10), (*string)(nil))

		mockDB.ExpectQuery(`SELECT(.|\n)*FROM "food_items"`).WillReturnRows(rows)

		records, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Nasi Goreng", *records[0].Name)
		assert.Equal(t, 40.0, *records[0].Carbohydrate)
		assert.Nil(t, records[1].Calories)
		assert.Nil(t, records[1].Image)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("empty table", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT").WillReturnRows(pgxmock.NewRows(catalogColumns))

		_, err := loader.Load(context.Background())
		assert.ErrorIs(t, err, ErrEmptyCatalog)

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

		_, err := loader.Load(context.Background())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")

		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestPostgresLoader_CustomTable(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	rows := pgxmock.NewRows(catalogColumns).
		AddRow(str("9"), str("Tempe"), num(200), num(20), num(8), num(9), str("Unknown"))
	mockDB.ExpectQuery(`FROM "nutrition"`).WillReturnRows(rows)

	records, err := NewPostgresLoader(mockDB, "nutrition").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
