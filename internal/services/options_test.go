package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/config"
	catalogtest "github.com/light-bringer/markup-catalog/internal/testutil"
	httptransport "github.com/light-bringer/markup-catalog/internal/transport/http"
)

func memoryConfig() *config.Config {
	cfg := config.FromEnv()
	cfg.Store.Driver = config.DriverMemory
	cfg.Metrics.Prefix = "svc"
	cfg.Catalog.DisplayLocale = "en-US"
	return cfg
}

func TestNewServiceOptions_Memory(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := NewServiceOptions(context.Background(), memoryConfig(), zap.NewNop(),
		WithClock(catalogtest.NewTickingClock()),
		WithRegistry(reg),
	)
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.SpannerClient)
	require.NotNil(t, svc.CatalogHandler)
	require.NotNil(t, svc.FormulaHandler)

	e := httptransport.NewServer(svc.CatalogHandler, zap.NewNop(), svc.Metrics, svc.Gatherer)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
		strings.NewReader(`{"number":"SH-001","name":"Shirt","basePrice":40}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/table", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.ProductOperations.WithLabelValues("create")))
	// product_create, product_list and column_list at minimum
	assert.GreaterOrEqual(t, testutil.CollectAndCount(svc.Metrics.StoreOperationDuration), 3)
}

func TestNewServiceOptions_BadLocale(t *testing.T) {
	cfg := memoryConfig()
	cfg.Catalog.DisplayLocale = "not a locale!"
	_, err := NewServiceOptions(context.Background(), cfg, zap.NewNop(), WithRegistry(prometheus.NewRegistry()))
	assert.Error(t, err)
}

func TestRelay_DrainSettlesOutbox(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, err := NewServiceOptions(context.Background(), memoryConfig(), zap.NewNop(),
		WithClock(catalogtest.NewTickingClock()),
		WithRegistry(reg),
	)
	require.NoError(t, err)
	require.NotNil(t, svc.Relay)

	e := httptransport.NewServer(svc.CatalogHandler, zap.NewNop(), svc.Metrics, svc.Gatherer)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
		strings.NewReader(`{"number":"SH-001","name":"Shirt","basePrice":40}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	svc.Relay.Drain(context.Background())

	assert.GreaterOrEqual(t, testutil.ToFloat64(svc.Metrics.OutboxEvents.WithLabelValues("published")), 1.0)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?status=pending", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":0`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?status=completed&event_type=product.created", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)
	assert.Contains(t, rec.Body.String(), `"processed_at"`)
}

func TestRelay_RunDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.Outbox.RelayInterval = 0
	svc, err := NewServiceOptions(context.Background(), cfg, zap.NewNop(), WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		svc.Relay.Run(context.Background())
		close(done)
	}()
	<-done
}
