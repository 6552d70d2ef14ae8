package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/temcen/nutrirec/internal/catalog"
)

func TestHealthService_CheckHealth(t *testing.T) {
	holder := catalog.NewHolder(newTestStore(t, scenarioRecords()), nil, testLogger())
	hs := NewHealthService(prometheus.NewRegistry(), testLogger(), nil, holder)
	defer hs.Stop()

	status := hs.CheckHealth(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "healthy", status.Services["catalog"])
	assert.Equal(t, 3, status.Details["catalog_records"])
	assert.Empty(t, status.Critical)

	assert.Equal(t, 1.0, testutil.ToFloat64(hs.healthCheckStatus.WithLabelValues("catalog")))
}

func TestHealthService_NoCatalog(t *testing.T) {
	holder := catalog.NewHolder(nil, nil, testLogger())
	hs := NewHealthService(prometheus.NewRegistry(), testLogger(), nil, holder)
	defer hs.Stop()

	status := hs.CheckHealth(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, []string{"catalog"}, status.Critical)
	assert.Equal(t, 0.0, testutil.ToFloat64(hs.healthCheckStatus.WithLabelValues("catalog")))
}

func TestHealthService_StartStop(t *testing.T) {
	holder := catalog.NewHolder(newTestStore(t, scenarioRecords()), nil, testLogger())
	hs := NewHealthService(prometheus.NewRegistry(), testLogger(), nil, holder)

	hs.Start()
	assert.NotPanics(t, func() {
		hs.Stop()
		hs.Stop()
	})
}
