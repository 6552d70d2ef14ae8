package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/pkg/models"
)

func food(name string, calories, proteins, fat, carbohydrate float64) models.FoodRecord {
	return models.FoodRecord{
		ID:           name,
		Name:         name,
		Calories:     calories,
		Proteins:     proteins,
		Fat:          fat,
		Carbohydrate: carbohydrate,
		Image:        models.UnknownValue,
	}
}

// scenarioRecords is already in catalog (name) order.
func scenarioRecords() []models.FoodRecord {
	return []models.FoodRecord{
		food("Nasi Goreng", 300, 5, 8, 40),
		food("Nasi Uduk", 350, 6, 10, 45),
		food("Salad", 100, 2, 1, 10),
	}
}

func widerRecords() []models.FoodRecord {
	return []models.FoodRecord{
		food("Ayam Bakar", 250, 25, 12, 5),
		food("Bakso", 200, 12, 10, 15),
		food("Es Teh", 120, 0, 0, 30),
		food("Gado Gado", 180, 8, 9, 20),
		food("Nasi Goreng", 300, 5, 8, 40),
		food("Nasi Uduk", 350, 6, 10, 45),
		food("Rendang", 190, 20, 11, 4),
		food("Salad", 100, 2, 1, 10),
		food("Soto Ayam", 120, 10, 5, 8),
		food("Tempe Goreng", 200, 20, 8, 9),
	}
}

func newTestStore(t *testing.T, records []models.FoodRecord) *catalog.Store {
	t.Helper()
	store, err := catalog.NewStore(records)
	require.NoError(t, err)
	return store
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testRecommendationConfig() *config.RecommendationConfig {
	return &config.RecommendationConfig{
		DefaultTopN: 3,
		MaxTopN:     50,
		SampleSize:  10,
		Seed:        42,
	}
}

func newTestOrchestrator(t *testing.T, records []models.FoodRecord) *RecommendationOrchestrator {
	t.Helper()
	holder := catalog.NewHolder(newTestStore(t, records), nil, testLogger())
	return NewRecommendationOrchestrator(
		holder, NewNameResolver(), nil, nil,
		NewMetricsCollector(prometheus.NewRegistry(), testLogger()),
		testRecommendationConfig(), testLogger(),
	)
}

type MockRecommendationPublisher struct {
	mock.Mock
}

func (m *MockRecommendationPublisher) PublishRecommendation(ctx context.Context, event models.RecommendationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type stubLoader struct {
	rows []catalog.RawRecord
	err  error
}

func (l *stubLoader) Load(ctx context.Context) ([]catalog.RawRecord, error) {
	return l.rows, l.err
}

func rawRow(name string, calories, proteins, fat, carbohydrate float64) catalog.RawRecord {
	id := name
	image := models.UnknownValue
	return catalog.RawRecord{
		ID:           &id,
		Name:         &name,
		Calories:     &calories,
		Proteins:     &proteins,
		Fat:          &fat,
		Carbohydrate: &carbohydrate,
		Image:        &image,
	}
}
