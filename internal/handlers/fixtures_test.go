package handlers

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/internal/services"
	"github.com/temcen/nutrirec/pkg/models"
)

// MockRecommendationOrchestrator is a mock implementation
type MockRecommendationOrchestrator struct {
	mock.Mock
}

func (m *MockRecommendationOrchestrator) Catalog() *catalog.Store {
	args := m.Called()
	return args.Get(0).(*catalog.Store)
}

func (m *MockRecommendationOrchestrator) ReloadCatalog(ctx context.Context) (*catalog.Store, error) {
	args := m.Called(ctx)
	store, _ := args.Get(0).(*catalog.Store)
	return store, args.Error(1)
}

func (m *MockRecommendationOrchestrator) ListSample(n int) ([]models.FoodRecord, error) {
	args := m.Called(n)
	foods, _ := args.Get(0).([]models.FoodRecord)
	return foods, args.Error(1)
}

func (m *MockRecommendationOrchestrator) Suggest(query string) []models.Suggestion {
	args := m.Called(query)
	return args.Get(0).([]models.Suggestion)
}

func (m *MockRecommendationOrchestrator) SuggestWithin(query string, indices []int) []models.Suggestion {
	args := m.Called(query, indices)
	return args.Get(0).([]models.Suggestion)
}

func (m *MockRecommendationOrchestrator) Recommend(ctx context.Context, anchorName string, topN int, prefs models.Preferences) (*models.RecommendationResponse, error) {
	args := m.Called(ctx, anchorName, topN, prefs)
	response, _ := args.Get(0).(*models.RecommendationResponse)
	return response, args.Error(1)
}

func (m *MockRecommendationOrchestrator) PreferenceAnchor(ctx context.Context, prefs models.Preferences) (models.FoodRecord, error) {
	args := m.Called(ctx, prefs)
	return args.Get(0).(models.FoodRecord), args.Error(1)
}

var _ services.RecommendationOrchestratorInterface = (*MockRecommendationOrchestrator)(nil)

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

func scenarioRecords() []models.FoodRecord {
	return []models.FoodRecord{
		food("Nasi Goreng", 300, 5, 8, 40),
		food("Nasi Uduk", 350, 6, 10, 45),
		food("Salad", 100, 2, 1, 10),
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return logger
}

func newTestHolder(t *testing.T, records []models.FoodRecord, loader catalog.Loader) *catalog.Holder {
	t.Helper()
	store, err := catalog.NewStore(records)
	require.NoError(t, err)
	return catalog.NewHolder(store, loader, testLogger())
}

func newTestOrchestrator(t *testing.T, holder *catalog.Holder) *services.RecommendationOrchestrator {
	t.Helper()
	return services.NewRecommendationOrchestrator(
		holder,
		services.NewNameResolver(),
		nil,
		nil,
		services.NewMetricsCollector(prometheus.NewRegistry(), testLogger()),
		&config.RecommendationConfig{DefaultTopN: 3, MaxTopN: 50, SampleSize: 2, Seed: 7},
		testLogger(),
	)
}
