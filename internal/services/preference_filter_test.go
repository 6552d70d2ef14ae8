package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/nutrirec/pkg/models"
)

func TestFilterByPreferences(t *testing.T) {
	store := newTestStore(t, scenarioRecords())

	tests := []struct {
		name  string
		prefs models.Preferences
		want  []int
	}{
		{
			name:  "no preferences keeps everything",
			prefs: nil,
			want:  []int{0, 1, 2},
		},
		{
			name:  "threshold is inclusive",
			prefs: models.Preferences{models.FieldCalories: 300},
			want:  []int{0, 2},
		},
		{
			name: "all thresholds must hold",
			prefs: models.Preferences{
				models.FieldCalories: 400,
				models.FieldFat:      8,
			},
			want: []int{0, 2},
		},
		{
			name:  "compares raw values",
			prefs: models.Preferences{models.FieldCarbohydrate: 0.5},
			want:  []int{},
		},
		{
			name:  "unknown fields ignored",
			prefs: models.Preferences{"sodium": 1, "name": 0},
			want:  []int{0, 1, 2},
		},
		{
			name:  "everything filtered out",
			prefs: models.Preferences{models.FieldProteins: 1},
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByPreferences(store, nil, tt.prefs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterByPreferences_Candidates(t *testing.T) {
	store := newTestStore(t, scenarioRecords())

	got := FilterByPreferences(store, []int{1, 2}, models.Preferences{models.FieldCalories: 1000})
	assert.Equal(t, []int{1, 2}, got)
}

func TestFilterByPreferences_Monotonic(t *testing.T) {
	store := newTestStore(t, widerRecords())

	for _, field := range models.NutrientFields {
		t.Run(field, func(t *testing.T) {
			loose := models.Preferences{models.FieldCalories: 400, models.FieldFat: 30}
			previous := FilterByPreferences(store, nil, loose)

			for _, limit := range []float64{300, 200, 100, 40, 10, 5, 0} {
				tight := models.Preferences{models.FieldCalories: 400, models.FieldFat: 30}
				if current, ok := tight[field]; !ok || limit < current {
					tight[field] = limit
				}
				current := FilterByPreferences(store, nil, tight)

				assert.LessOrEqual(t, len(current), len(previous))
				assert.Subset(t, previous, current)
				previous = current
			}
		})
	}
}
