package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/pkg/models"
)

// MessageNoRecommendations accompanies an empty recommendation list.
const MessageNoRecommendations = "no recommendations available"

// RecommendationOrchestrator composes name resolution, preference filtering
// and similarity ranking over the active catalog snapshot.
type RecommendationOrchestrator struct {
	catalog   *catalog.Holder
	resolver  *NameResolver
	redis     *redis.Client
	publisher RecommendationPublisher
	metrics   *MetricsCollector
	config    *config.RecommendationConfig
	logger    *logrus.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRecommendationOrchestrator wires the engine. redis, publisher and
// metrics are optional.
func NewRecommendationOrchestrator(
	holder *catalog.Holder,
	resolver *NameResolver,
	redis *redis.Client,
	publisher RecommendationPublisher,
	metrics *MetricsCollector,
	cfg *config.RecommendationConfig,
	logger *logrus.Logger,
) *RecommendationOrchestrator {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	o := &RecommendationOrchestrator{
		catalog:   holder,
		resolver:  resolver,
		redis:     redis,
		publisher: publisher,
		metrics:   metrics,
		config:    cfg,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}

	if store := holder.Current(); store != nil {
		metrics.RecordCatalog(store.Len())
	}

	return o
}

// Catalog returns the active snapshot.
func (o *RecommendationOrchestrator) Catalog() *catalog.Store {
	return o.catalog.Current()
}

// ReloadCatalog rebuilds the catalog from its loader and swaps it in.
// Cached results are keyed by snapshot version and expire on their own.
func (o *RecommendationOrchestrator) ReloadCatalog(ctx context.Context) (*catalog.Store, error) {
	store, err := o.catalog.Reload(ctx)
	o.metrics.RecordReload(err)
	if err != nil {
		o.logger.WithError(err).Error("Catalog reload failed")
		return nil, err
	}
	o.metrics.RecordCatalog(store.Len())
	return store, nil
}

// ListSample returns n distinct records chosen at random.
func (o *RecommendationOrchestrator) ListSample(n int) ([]models.FoodRecord, error) {
	started := time.Now()
	store := o.catalog.Current()
	indices, err := o.sampleIndices(store, n)
	o.metrics.RecordOperation("sample", started, err)
	if err != nil {
		return nil, err
	}

	out := make([]models.FoodRecord, len(indices))
	for i, idx := range indices {
		out[i] = store.Record(idx)
	}
	return out, nil
}

func (o *RecommendationOrchestrator) sampleIndices(store *catalog.Store, n int) ([]int, error) {
	o.rngMu.Lock()
	defer o.rngMu.Unlock()
	return store.SampleIndices(n, o.rng)
}

// Suggest resolves query against the whole catalog.
func (o *RecommendationOrchestrator) Suggest(query string) []models.Suggestion {
	started := time.Now()
	suggestions := o.resolver.Suggest(o.catalog.Current(), query, nil)
	o.metrics.RecordOperation("suggest", started, nil)
	return suggestions
}

// SuggestWithin resolves query against the given catalog rows only.
func (o *RecommendationOrchestrator) SuggestWithin(query string, indices []int) []models.Suggestion {
	started := time.Now()
	if indices == nil {
		indices = []int{}
	}
	suggestions := o.resolver.Suggest(o.catalog.Current(), query, indices)
	o.metrics.RecordOperation("suggest", started, nil)
	return suggestions
}

// Recommend returns the topN records most similar to the named anchor,
// restricted to rows satisfying prefs. The anchor itself is never returned.
func (o *RecommendationOrchestrator) Recommend(
	ctx context.Context,
	anchorName string,
	topN int,
	prefs models.Preferences,
) (*models.RecommendationResponse, error) {
	started := time.Now()
	response, err := o.recommend(ctx, anchorName, topN, prefs)
	o.metrics.RecordOperation("recommend", started, err)
	return response, err
}

func (o *RecommendationOrchestrator) recommend(
	ctx context.Context,
	anchorName string,
	topN int,
	prefs models.Preferences,
) (*models.RecommendationResponse, error) {
	store := o.catalog.Current()
	topN = o.resolveTopN(topN)

	anchorIdx, ok := store.RowIndexOf(anchorName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, anchorName)
	}

	cacheKey := o.buildCacheKey(store, anchorName, topN, prefs)
	if cached, err := o.getCachedRecommendations(ctx, cacheKey); err == nil && cached != nil {
		o.metrics.RecordCacheLookup(true)
		o.logger.WithField("anchor", anchorName).Debug("Recommendation cache hit")
		return cached, nil
	}
	if o.redis != nil {
		o.metrics.RecordCacheLookup(false)
	}

	candidates := FilterByPreferences(store, nil, prefs)
	ranked := Rank(store, store.Vector(anchorIdx), candidates, anchorIdx)
	top := TopN(ranked, topN)

	response := &models.RecommendationResponse{
		Anchor:          store.Record(anchorIdx),
		Recommendations: top,
		Preferences:     prefs,
		CatalogVersion:  store.Version(),
		GeneratedAt:     time.Now(),
	}
	if len(top) == 0 {
		response.Message = MessageNoRecommendations
	}

	if err := o.cacheRecommendations(ctx, cacheKey, response); err != nil {
		o.logger.WithError(err).Warn("Failed to cache recommendations")
	}

	o.publish(ctx, response, topN)
	o.metrics.RecordResultSize(len(top))

	o.logger.WithFields(logrus.Fields{
		"anchor":     anchorName,
		"top_n":      topN,
		"candidates": len(candidates),
		"returned":   len(top),
	}).Debug("Recommendations generated")

	return response, nil
}

// PreferenceAnchor picks an anchor food for the preference-first workflow:
// among rows satisfying prefs, the one most similar to the first catalog
// record, excluding that record itself.
func (o *RecommendationOrchestrator) PreferenceAnchor(ctx context.Context, prefs models.Preferences) (models.FoodRecord, error) {
	started := time.Now()
	anchor, err := o.preferenceAnchor(o.catalog.Current(), prefs)
	o.metrics.RecordOperation("preference_anchor", started, err)
	return anchor, err
}

func (o *RecommendationOrchestrator) preferenceAnchor(store *catalog.Store, prefs models.Preferences) (models.FoodRecord, error) {
	const seed = 0

	candidates := FilterByPreferences(store, nil, prefs)
	ranked := Rank(store, store.Vector(seed), candidates, seed)
	if len(ranked) == 0 {
		return models.FoodRecord{}, ErrNoCandidates
	}
	return ranked[0].Record, nil
}

// resolveTopN substitutes the default for a non-positive count. Upper
// limits are enforced by the HTTP layer, not here.
func (o *RecommendationOrchestrator) resolveTopN(topN int) int {
	if topN > 0 {
		return topN
	}
	if o.config.DefaultTopN > 0 {
		return o.config.DefaultTopN
	}
	return 3
}

func (o *RecommendationOrchestrator) publish(ctx context.Context, response *models.RecommendationResponse, topN int) {
	if o.publisher == nil {
		return
	}

	names := make([]string, len(response.Recommendations))
	for i, r := range response.Recommendations {
		names[i] = r.Record.Name
	}

	event := models.RecommendationEvent{
		Anchor:         response.Anchor.Name,
		Recommended:    names,
		TopN:           topN,
		Filtered:       len(response.Preferences) > 0,
		CatalogVersion: response.CatalogVersion,
		Timestamp:      response.GeneratedAt,
	}

	if err := o.publisher.PublishRecommendation(ctx, event); err != nil {
		o.logger.WithError(err).Warn("Failed to publish recommendation event")
	}
}

func (o *RecommendationOrchestrator) getCachedRecommendations(ctx context.Context, key string) (*models.RecommendationResponse, error) {
	if o.redis == nil {
		return nil, fmt.Errorf("cache not available")
	}

	cached, err := o.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var response models.RecommendationResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return nil, err
	}

	response.CacheHit = true
	return &response, nil
}

func (o *RecommendationOrchestrator) cacheRecommendations(ctx context.Context, key string, response *models.RecommendationResponse) error {
	if o.redis == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return o.redis.Set(ctx, key, data, o.config.CacheTTL).Err()
}

// buildCacheKey scopes entries to the catalog version so a reload never
// serves results computed over an older snapshot.
func (o *RecommendationOrchestrator) buildCacheKey(store *catalog.Store, anchor string, topN int, prefs models.Preferences) string {
	var b strings.Builder
	for _, field := range models.NutrientFields {
		if max, ok := prefs[field]; ok {
			b.WriteString(field)
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(max, 'g', -1, 64))
			b.WriteByte(';')
		}
	}

	return fmt.Sprintf("recommendation:%s:%s:%d:%s", store.Version(), anchor, topN, b.String())
}
