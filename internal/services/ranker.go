package services

import (
	"sort"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/ml"
	"github.com/temcen/nutrirec/pkg/models"
)

// NoExclusion disables self-exclusion in Rank.
const NoExclusion = -1

// Rank scores every candidate row against query by cosine similarity and
// returns them best first. Row exclude is dropped from the result; pass
// NoExclusion to keep every candidate. Equal scores keep candidate order.
func Rank(store *catalog.Store, query []float64, candidates []int, exclude int) []models.SimilarityResult {
	results := make([]models.SimilarityResult, 0, len(candidates))
	for _, idx := range candidates {
		if idx == exclude {
			continue
		}
		results = append(results, models.SimilarityResult{
			Record: store.Record(idx),
			Index:  idx,
			Score:  ml.CosineSimilarity(query, store.Vector(idx)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Position = i + 1
	}

	return results
}

// TopN returns the first n results. Fewer available means all of them.
func TopN(results []models.SimilarityResult, n int) []models.SimilarityResult {
	if n < 0 {
		n = 0
	}
	if n > len(results) {
		n = len(results)
	}
	return results[:n]
}
