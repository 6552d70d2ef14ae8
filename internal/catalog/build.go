package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/temcen/nutrirec/pkg/models"
)

// RawRecord is a loader row before cleaning. Nil means the cell was empty.
type RawRecord struct {
	ID           *string
	Name         *string
	Calories     *float64
	Proteins     *float64
	Fat          *float64
	Carbohydrate *float64
	Image        *string
}

func (r RawRecord) nutrients() []*float64 {
	return []*float64{r.Calories, r.Proteins, r.Fat, r.Carbohydrate}
}

type nameGroup struct {
	name  string
	sums  []float64
	count int
	id    *string
	image *string
}

// Build cleans loader output into catalog records: numeric gaps are filled
// with the column mean, names are NFC-normalized and trimmed, missing names
// and images become "Unknown", and rows
// sharing a name are merged (mean of numerics, first non-null id and image).
// The result is ordered by name.
func Build(raw []RawRecord) ([]models.FoodRecord, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}

	means, err := columnMeans(raw)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*nameGroup)
	for i, row := range raw {
		name := models.UnknownValue
		if row.Name != nil {
			if cleaned := strings.TrimSpace(norm.NFC.String(*row.Name)); cleaned != "" {
				name = cleaned
			}
		}

		g, ok := groups[name]
		if !ok {
			g = &nameGroup{name: name, sums: make([]float64, len(models.NutrientFields))}
			groups[name] = g
		}

		for j, v := range row.nutrients() {
			value := means[j]
			if v != nil {
				value = *v
			}
			if value < 0 {
				return nil, fmt.Errorf("%w: row %d has negative %s", ErrInvalidRecord, i+1, models.NutrientFields[j])
			}
			g.sums[j] += value
		}
		g.count++

		if g.id == nil && row.ID != nil && *row.ID != "" {
			g.id = row.ID
		}
		if g.image == nil && row.Image != nil {
			g.image = row.Image
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]models.FoodRecord, 0, len(names))
	for _, name := range names {
		g := groups[name]
		n := float64(g.count)

		record := models.FoodRecord{
			Name:         g.name,
			Calories:     g.sums[0] / n,
			Proteins:     g.sums[1] / n,
			Fat:          g.sums[2] / n,
			Carbohydrate: g.sums[3] / n,
			Image:        models.UnknownValue,
		}
		if g.id != nil {
			record.ID = *g.id
		}
		if g.image != nil {
			record.Image = *g.image
		}
		records = append(records, record)
	}

	return records, nil
}

// columnMeans averages each nutrient column over its non-null cells.
func columnMeans(raw []RawRecord) ([]float64, error) {
	sums := make([]float64, len(models.NutrientFields))
	counts := make([]int, len(models.NutrientFields))

	for _, row := range raw {
		for j, v := range row.nutrients() {
			if v != nil {
				sums[j] += *v
				counts[j]++
			}
		}
	}

	means := make([]float64, len(sums))
	for j := range sums {
		if counts[j] == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrMissingColumn, models.NutrientFields[j])
		}
		means[j] = sums[j] / float64(counts[j])
	}

	return means, nil
}
