package services

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/ml"
	"github.com/temcen/nutrirec/pkg/models"
)

// NameResolver finds catalog records whose name contains a query.
type NameResolver struct {
	lang language.Tag
}

func NewNameResolver() *NameResolver {
	return &NameResolver{lang: language.Und}
}

// Suggest returns every record in scope whose lower-cased name contains the
// lower-cased query. A nil scope means the whole catalog. With several
// matches each one is scored by cosine similarity to the centroid of the
// matched vectors and the list is ordered by that score, ties kept in
// catalog order. A single match carries no score.
func (r *NameResolver) Suggest(store *catalog.Store, query string, scope []int) []models.Suggestion {
	if scope == nil {
		scope = store.Indices()
	} else {
		// Scopes may arrive in sample order; matches are reported in catalog order
		scope = append([]int(nil), scope...)
		sort.Ints(scope)
	}

	// A Caser keeps state, so each call gets its own
	caser := cases.Lower(r.lang)
	needle := caser.String(query)

	matches := make([]models.Suggestion, 0)
	for _, idx := range scope {
		record := store.Record(idx)
		if strings.Contains(caser.String(record.Name), needle) {
			matches = append(matches, models.Suggestion{Record: record, Index: idx})
		}
	}

	if len(matches) <= 1 {
		return matches
	}

	vectors := make([][]float64, len(matches))
	for i, m := range matches {
		vectors[i] = store.Vector(m.Index)
	}
	centroid := ml.Centroid(vectors)

	for i := range matches {
		score := ml.CosineSimilarity(vectors[i], centroid)
		matches[i].Score = &score
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return *matches[i].Score > *matches[j].Score
	})

	return matches
}
