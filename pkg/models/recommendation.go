package models

import (
	"time"

	"github.com/google/uuid"
)

// SimilarityResult is one ranked catalog row.
type SimilarityResult struct {
	Record   FoodRecord `json:"record"`
	Index    int        `json:"index"`
	Score    float64    `json:"score"`
	Position int        `json:"position"`
}

// Suggestion is a name-resolution match. Score is set only when the
// query matched more than one record.
type Suggestion struct {
	Record FoodRecord `json:"record"`
	Index  int        `json:"index"`
	Score  *float64   `json:"score,omitempty"`
}

type RecommendationResponse struct {
	Anchor          FoodRecord         `json:"anchor"`
	Recommendations []SimilarityResult `json:"recommendations"`
	Preferences     Preferences        `json:"preferences,omitempty"`
	CatalogVersion  uuid.UUID          `json:"catalog_version"`
	GeneratedAt     time.Time          `json:"generated_at"`
	CacheHit        bool               `json:"cache_hit"`
	Message         string             `json:"message,omitempty"`
}

type SuggestionResponse struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
	Message     string       `json:"message,omitempty"`
}

type SampleResponse struct {
	Foods []FoodRecord `json:"foods"`
	Count int          `json:"count"`
}

// ThresholdRequest carries user-typed nutrient ceilings. Values are kept
// as text so the shell can report non-numeric input.
type ThresholdRequest struct {
	Calories     *string `json:"calories,omitempty"`
	Proteins     *string `json:"proteins,omitempty"`
	Fat          *string `json:"fat,omitempty"`
	Carbohydrate *string `json:"carbohydrate,omitempty"`
}

type ChoiceRequest struct {
	Choice string `json:"choice" validate:"required,oneof=1 2 3 browse direct preference"`
}

type FoodNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// RecommendationEvent is published after a recommendation list is served.
type RecommendationEvent struct {
	EventID        uuid.UUID `json:"event_id"`
	Anchor         string    `json:"anchor"`
	Recommended    []string  `json:"recommended"`
	TopN           int       `json:"top_n"`
	Filtered       bool      `json:"filtered"`
	CatalogVersion uuid.UUID `json:"catalog_version"`
	Timestamp      time.Time `json:"timestamp"`
}
