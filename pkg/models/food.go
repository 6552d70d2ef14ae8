package models

// UnknownValue marks a missing name or image in the catalog.
const UnknownValue = "Unknown"

// Nutrient field names as they appear in the dataset schema.
const (
	FieldCalories     = "calories"
	FieldProteins     = "proteins"
	FieldFat          = "fat"
	FieldCarbohydrate = "carbohydrate"
)

// NutrientFields is the fixed column order of the feature matrix.
var NutrientFields = []string{FieldCalories, FieldProteins, FieldFat, FieldCarbohydrate}

// NutrientIndex returns the feature column of a nutrient field, or -1.
func NutrientIndex(field string) int {
	for i, f := range NutrientFields {
		if f == field {
			return i
		}
	}
	return -1
}

type FoodRecord struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Proteins     float64 `json:"proteins"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
	Image        string  `json:"image"`
}

// Nutrients returns the raw nutrient values in NutrientFields order.
func (r FoodRecord) Nutrients() []float64 {
	return []float64{r.Calories, r.Proteins, r.Fat, r.Carbohydrate}
}

// HasImage reports whether the record carries an image reference.
func (r FoodRecord) HasImage() bool {
	return r.Image != "" && r.Image != UnknownValue
}

// Preferences maps a nutrient field to the maximum allowed raw value.
type Preferences map[string]float64
