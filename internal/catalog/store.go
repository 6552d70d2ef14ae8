package catalog

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/temcen/nutrirec/internal/ml"
	"github.com/temcen/nutrirec/pkg/models"
)

// Store is an immutable catalog snapshot: the cleaned records plus the
// raw and min-max normalized nutrient matrices, indexed by row position.
type Store struct {
	records    []models.FoodRecord
	raw        *mat.Dense
	normalized *mat.Dense
	scaler     ml.ScalerState
	byName     map[string]int
	version    uuid.UUID
	builtAt    time.Time
}

// NewStore builds a snapshot over records. Names must be unique.
func NewStore(records []models.FoodRecord) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	cols := len(models.NutrientFields)
	raw := mat.NewDense(len(records), cols, nil)
	byName := make(map[string]int, len(records))

	owned := make([]models.FoodRecord, len(records))
	copy(owned, records)

	for i, record := range owned {
		if _, exists := byName[record.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, record.Name)
		}
		byName[record.Name] = i
		raw.SetRow(i, record.Nutrients())
	}

	normalized, state, err := ml.NewMinMaxScaler().FitTransform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize catalog: %w", err)
	}

	return &Store{
		records:    owned,
		raw:        raw,
		normalized: normalized,
		scaler:     state,
		byName:     byName,
		version:    uuid.New(),
		builtAt:    time.Now(),
	}, nil
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Version() uuid.UUID {
	return s.version
}

func (s *Store) BuiltAt() time.Time {
	return s.builtAt
}

func (s *Store) ScalerState() ml.ScalerState {
	return s.scaler
}

// Record returns the record at row i.
func (s *Store) Record(i int) models.FoodRecord {
	return s.records[i]
}

// Records returns a copy of every record in catalog order.
func (s *Store) Records() []models.FoodRecord {
	out := make([]models.FoodRecord, len(s.records))
	copy(out, s.records)
	return out
}

// ByName looks up a record by its exact, case-sensitive name.
func (s *Store) ByName(name string) (models.FoodRecord, bool) {
	i, ok := s.byName[name]
	if !ok {
		return models.FoodRecord{}, false
	}
	return s.records[i], true
}

func (s *Store) RowIndexOf(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Vector returns a copy of the normalized feature row i.
func (s *Store) Vector(i int) []float64 {
	return mat.Row(nil, i, s.normalized)
}

// RawValue returns the unnormalized value of feature column col at row i.
func (s *Store) RawValue(i, col int) float64 {
	return s.raw.At(i, col)
}

// Indices returns every row index in catalog order.
func (s *Store) Indices() []int {
	out := make([]int, len(s.records))
	for i := range out {
		out[i] = i
	}
	return out
}

// SampleIndices picks n distinct rows uniformly at random.
func (s *Store) SampleIndices(n int, rng *rand.Rand) ([]int, error) {
	if n < 0 || n > len(s.records) {
		return nil, fmt.Errorf("%w: requested %d of %d records", ErrInsufficientData, n, len(s.records))
	}
	return rng.Perm(len(s.records))[:n], nil
}

// Sample returns n distinct records chosen uniformly at random.
func (s *Store) Sample(n int, rng *rand.Rand) ([]models.FoodRecord, error) {
	indices, err := s.SampleIndices(n, rng)
	if err != nil {
		return nil, err
	}

	out := make([]models.FoodRecord, len(indices))
	for i, idx := range indices {
		out[i] = s.records[idx]
	}
	return out, nil
}
