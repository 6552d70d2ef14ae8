package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_BuiltinSchemas(t *testing.T) {
	sv := NewSchemaValidator()

	assert.True(t, sv.SchemaExists(FoodCatalogSchema))
	assert.True(t, sv.SchemaExists(RecommendationResponseSchema))
	assert.False(t, sv.SchemaExists("content-item"))
}

func TestSchemaValidator_ValidateFoodCatalog(t *testing.T) {
	sv := NewSchemaValidator()

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{
			name:  "valid catalog",
			doc:   `[{"id": 1, "name": "Nasi Goreng", "calories": 300, "proteins": 5, "fat": 8, "carbohydrate": 40, "image": "https://example.com/a.jpg"}]`,
			valid: true,
		},
		{
			name:  "nulls allowed",
			doc:   `[{"id": null, "name": "Salad", "calories": null, "proteins": 2, "fat": 1, "carbohydrate": 10, "image": null}]`,
			valid: true,
		},
		{
			name:  "negative calories",
			doc:   `[{"name": "Salad", "calories": -1}]`,
			valid: false,
		},
		{
			name:  "non-numeric fat",
			doc:   `[{"name": "Salad", "fat": "high"}]`,
			valid: false,
		},
		{
			name:  "missing name",
			doc:   `[{"calories": 10}]`,
			valid: false,
		},
		{
			name:  "not an array",
			doc:   `{"name": "Salad"}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateFoodCatalog([]byte(tt.doc))
			assert.Equal(t, tt.valid, result.Valid, "errors: %v", result.Errors)
			if tt.valid {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestSchemaValidator_ValidateRecommendationResponse(t *testing.T) {
	sv := NewSchemaValidator()

	food := map[string]interface{}{
		"id": "1", "name": "Nasi Uduk", "calories": 350.0, "proteins": 6.0,
		"fat": 10.0, "carbohydrate": 45.0, "image": "Unknown",
	}
	response := map[string]interface{}{
		"anchor": food,
		"recommendations": []interface{}{
			map[string]interface{}{"record": food, "index": 1, "score": 0.99, "position": 1},
		},
		"catalog_version": "6f1c3d3a-3f7e-4c55-9c1e-0e4b9d3e1a11",
		"generated_at":    "2026-01-01T00:00:00Z",
	}

	result := sv.ValidateRecommendationResponse(response)
	require.True(t, result.Valid, "errors: %v", result.Errors)

	response["recommendations"] = []interface{}{
		map[string]interface{}{"record": food, "index": 1, "score": 1.5, "position": 1},
	}
	assert.False(t, sv.ValidateRecommendationResponse(response).Valid)
}
