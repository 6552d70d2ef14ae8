package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/pkg/models"
)

type stubLoader struct {
	rows []catalog.RawRecord
	err  error
}

func (l *stubLoader) Load(ctx context.Context) ([]catalog.RawRecord, error) {
	return l.rows, l.err
}

func rawRow(name string, calories, proteins, fat, carbohydrate float64) catalog.RawRecord {
	id := name
	image := models.UnknownValue
	return catalog.RawRecord{
		ID:           &id,
		Name:         &name,
		Calories:     &calories,
		Proteins:     &proteins,
		Fat:          &fat,
		Carbohydrate: &carbohydrate,
		Image:        &image,
	}
}

type catalogInfoView struct {
	Version string `json:"version"`
	Records int    `json:"records"`
	Scaler  struct {
		Min []float64 `json:"min"`
		Max []float64 `json:"max"`
	} `json:"scaler"`
}

func newAdminRouter(t *testing.T, loader catalog.Loader) (*gin.Engine, *catalog.Holder) {
	gin.SetMode(gin.TestMode)

	holder := newTestHolder(t, scenarioRecords(), loader)
	handler := NewAdminHandler(newTestOrchestrator(t, holder), testLogger())

	router := gin.New()
	router.GET("/admin/catalog", handler.GetCatalog)
	router.POST("/admin/catalog/reload", handler.ReloadCatalog)
	return router, holder
}

func TestAdminHandler_GetCatalog(t *testing.T) {
	router, holder := newAdminRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/catalog", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var info catalogInfoView
	decodeBody(t, w, &info)
	assert.Equal(t, 3, info.Records)
	assert.Equal(t, holder.Current().Version().String(), info.Version)
	assert.Equal(t, []float64{100, 2, 1, 10}, info.Scaler.Min)
	assert.Equal(t, []float64{350, 6, 10, 45}, info.Scaler.Max)
}

func TestAdminHandler_ReloadCatalog(t *testing.T) {
	t.Run("swaps the snapshot", func(t *testing.T) {
		loader := &stubLoader{rows: []catalog.RawRecord{
			rawRow("Bakso", 200, 12, 10, 15),
			rawRow("Rendang", 190, 20, 11, 4),
		}}
		router, holder := newAdminRouter(t, loader)
		before := holder.Current().Version()

		req := httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var info catalogInfoView
		decodeBody(t, w, &info)
		assert.Equal(t, 2, info.Records)
		assert.NotEqual(t, before.String(), info.Version)
		assert.Equal(t, 2, holder.Current().Len())
	})

	t.Run("failure keeps the active catalog", func(t *testing.T) {
		router, holder := newAdminRouter(t, &stubLoader{err: errors.New("source unavailable")})
		before := holder.Current().Version()

		req := httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "CATALOG_RELOAD_FAILED", errorCode(t, w))
		assert.Equal(t, before, holder.Current().Version())
	})

	t.Run("no loader", func(t *testing.T) {
		router, _ := newAdminRouter(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
