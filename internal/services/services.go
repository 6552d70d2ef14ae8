package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/internal/database"
	"github.com/temcen/nutrirec/internal/messaging"
)

type Services struct {
	Health                     *HealthService
	Metrics                    *MetricsCollector
	Events                     *messaging.EventPublisher
	RecommendationOrchestrator *RecommendationOrchestrator
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database, holder *catalog.Holder) (*Services, error) {
	reg := prometheus.DefaultRegisterer

	metrics := NewMetricsCollector(reg, logger)
	healthService := NewHealthService(reg, logger, db, holder)

	var publisher RecommendationPublisher
	var events *messaging.EventPublisher
	if cfg.Kafka.Enabled {
		events = messaging.NewEventPublisher(cfg, logger)
		publisher = events
	}

	var cache *redis.Client
	if db != nil {
		cache = db.Redis
	}

	orchestrator := NewRecommendationOrchestrator(
		holder, NewNameResolver(), cache, publisher, metrics, &cfg.Recommendation, logger,
	)

	return &Services{
		Health:                     healthService,
		Metrics:                    metrics,
		Events:                     events,
		RecommendationOrchestrator: orchestrator,
	}, nil
}

func (s *Services) Close() error {
	s.Health.Stop()
	if s.Events != nil {
		return s.Events.Close()
	}
	return nil
}
