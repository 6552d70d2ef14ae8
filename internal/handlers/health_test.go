package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/database"
	"github.com/temcen/nutrirec/internal/services"
)

func TestHealthHandler_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	unreachableRedis := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	defer unreachableRedis.Close()

	tests := []struct {
		name           string
		holder         func(t *testing.T) *catalog.Holder
		db             *database.Database
		expectedStatus int
		expectedState  string
		hasCatalog     bool
	}{
		{
			name:           "healthy",
			holder:         func(t *testing.T) *catalog.Holder { return newTestHolder(t, scenarioRecords(), nil) },
			expectedStatus: http.StatusOK,
			expectedState:  "healthy",
			hasCatalog:     true,
		},
		{
			name:           "degraded when redis is down",
			holder:         func(t *testing.T) *catalog.Holder { return newTestHolder(t, scenarioRecords(), nil) },
			db:             &database.Database{Redis: unreachableRedis},
			expectedStatus: http.StatusOK,
			expectedState:  "degraded",
			hasCatalog:     true,
		},
		{
			name:           "unhealthy without catalog",
			holder:         func(t *testing.T) *catalog.Holder { return catalog.NewHolder(nil, nil, testLogger()) },
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holder := tt.holder(t)
			healthService := services.NewHealthService(prometheus.NewRegistry(), testLogger(), tt.db, holder)
			handler := NewHealthHandler(testLogger(), healthService)

			router := gin.New()
			router.GET("/health", handler.Check)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body struct {
				Status  string                 `json:"status"`
				Details map[string]interface{} `json:"details"`
			}
			decodeBody(t, w, &body)
			assert.Equal(t, tt.expectedState, body.Status)

			if tt.hasCatalog {
				version := holder.Current().Version().String()
				assert.Equal(t, version, w.Header().Get(CatalogVersionHeader))
				assert.Equal(t, version, body.Details["catalog_version"])
				assert.Equal(t, float64(3), body.Details["catalog_records"])
			} else {
				assert.Empty(t, w.Header().Get(CatalogVersionHeader))
			}
		})
	}
}
