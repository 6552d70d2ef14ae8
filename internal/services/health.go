package services

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/database"
)

type HealthService struct {
	logger  *logrus.Logger
	db      *database.Database
	catalog *catalog.Holder

	// Prometheus metrics
	healthCheckStatus *prometheus.GaugeVec
	lastHealthCheck   *prometheus.GaugeVec
	systemMetrics     *prometheus.GaugeVec

	stop     chan struct{}
	stopOnce sync.Once
}

type HealthStatus struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]string      `json:"services"`
	Critical    []string               `json:"critical_failures,omitempty"`
	NonCritical []string               `json:"non_critical_failures,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewHealthService builds the health checker. db may be nil when no
// backing store is configured.
func NewHealthService(reg prometheus.Registerer, logger *logrus.Logger, db *database.Database, holder *catalog.Holder) *HealthService {
	hs := &HealthService{
		logger:  logger,
		db:      db,
		catalog: holder,
		stop:    make(chan struct{}),
	}

	hs.healthCheckStatus = register(reg, logger, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_status",
		Help: "Health check status (1 = healthy, 0 = unhealthy)",
	}, []string{"service"}))

	hs.lastHealthCheck = register(reg, logger, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "health_check_timestamp",
		Help: "Timestamp of last health check",
	}, []string{"service"}))

	hs.systemMetrics = register(reg, logger, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "system_info",
		Help: "System information metrics",
	}, []string{"metric_type"}))

	return hs
}

// Start begins periodic system metrics collection until Stop is called.
func (s *HealthService) Start() {
	go s.collectSystemMetrics(15 * time.Second)
}

func (s *HealthService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *HealthService) CheckHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Services:  make(map[string]string),
		Details:   make(map[string]interface{}),
	}

	// Without a catalog nothing can be served
	criticalServices := map[string]func(context.Context) error{
		"catalog": s.checkCatalog,
	}

	nonCriticalServices := map[string]func(context.Context) error{}
	if s.db != nil && s.db.PG != nil {
		nonCriticalServices["postgresql"] = s.checkPostgreSQL
	}
	if s.db != nil && s.db.Redis != nil {
		nonCriticalServices["redis"] = s.checkRedis
	}

	allCriticalHealthy := true
	for name, checkFunc := range criticalServices {
		if err := checkFunc(ctx); err != nil {
			status.Services[name] = "unhealthy"
			status.Critical = append(status.Critical, name)
			allCriticalHealthy = false
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = "healthy"
			s.UpdateHealthMetrics(name, true)
		}
	}

	for name, checkFunc := range nonCriticalServices {
		if err := checkFunc(ctx); err != nil {
			status.Services[name] = "unhealthy"
			status.NonCritical = append(status.NonCritical, name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", name)
			s.UpdateHealthMetrics(name, false)
		} else {
			status.Services[name] = "healthy"
			s.UpdateHealthMetrics(name, true)
		}
	}

	if store := s.catalog.Current(); store != nil {
		status.Details["catalog_records"] = store.Len()
		status.Details["catalog_version"] = store.Version().String()
		status.Details["catalog_built_at"] = store.BuiltAt()
	}

	// Overall status
	if allCriticalHealthy {
		if len(status.NonCritical) == 0 {
			status.Status = "healthy"
		} else {
			status.Status = "degraded"
		}
	} else {
		status.Status = "unhealthy"
	}

	return status
}

func (s *HealthService) checkCatalog(ctx context.Context) error {
	store := s.catalog.Current()
	if store == nil || store.Len() == 0 {
		return errors.New("no catalog loaded")
	}
	return nil
}

func (s *HealthService) checkPostgreSQL(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.db.PG.Ping(ctx)
}

func (s *HealthService) checkRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.db.Redis.Ping(ctx).Err()
}

// collectSystemMetrics collects system-level metrics
func (s *HealthService) collectSystemMetrics(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var memStats runtime.MemStats

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		runtime.ReadMemStats(&memStats)

		s.systemMetrics.WithLabelValues("memory_alloc_bytes").Set(float64(memStats.Alloc))
		s.systemMetrics.WithLabelValues("memory_sys_bytes").Set(float64(memStats.Sys))
		s.systemMetrics.WithLabelValues("goroutines_count").Set(float64(runtime.NumGoroutine()))
		s.systemMetrics.WithLabelValues("gc_runs_total").Set(float64(memStats.NumGC))
	}
}

// UpdateHealthMetrics updates health check metrics
func (s *HealthService) UpdateHealthMetrics(serviceName string, healthy bool) {
	if healthy {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(1)
	} else {
		s.healthCheckStatus.WithLabelValues(serviceName).Set(0)
	}
	s.lastHealthCheck.WithLabelValues(serviceName).Set(float64(time.Now().Unix()))
}
