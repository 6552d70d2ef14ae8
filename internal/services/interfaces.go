package services

import (
	"context"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/pkg/models"
)

// RecommendationPublisher receives an event for each served recommendation list.
type RecommendationPublisher interface {
	PublishRecommendation(ctx context.Context, event models.RecommendationEvent) error
}

// RecommendationOrchestratorInterface defines the engine operations exposed to shells
type RecommendationOrchestratorInterface interface {
	Catalog() *catalog.Store
	ReloadCatalog(ctx context.Context) (*catalog.Store, error)
	ListSample(n int) ([]models.FoodRecord, error)
	Suggest(query string) []models.Suggestion
	SuggestWithin(query string, indices []int) []models.Suggestion
	Recommend(ctx context.Context, anchorName string, topN int, prefs models.Preferences) (*models.RecommendationResponse, error)
	PreferenceAnchor(ctx context.Context, prefs models.Preferences) (models.FoodRecord, error)
}

// SessionEngineInterface defines the session state machine transitions
type SessionEngineInterface interface {
	NewSession() Session
	Choose(s Session, workflow Workflow) (Session, error)
	SubmitFoodName(s Session, name string) (Session, error)
	SubmitPreferences(ctx context.Context, s Session, prefs models.Preferences) (Session, error)
	SessionRecommendations(ctx context.Context, s Session, topN int) (*models.RecommendationResponse, error)
}

var (
	_ RecommendationOrchestratorInterface = (*RecommendationOrchestrator)(nil)
	_ SessionEngineInterface              = (*RecommendationOrchestrator)(nil)
)
