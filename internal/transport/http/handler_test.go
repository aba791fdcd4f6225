package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_categories"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_columns"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_events"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/repo/memstore"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_cell"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/markup-catalog/internal/metrics"
	"github.com/light-bringer/markup-catalog/internal/pkg/display"
	"github.com/light-bringer/markup-catalog/internal/pkg/formula"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
	"github.com/light-bringer/markup-catalog/internal/testutil"
	httptransport "github.com/light-bringer/markup-catalog/internal/transport/http"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	clk := testutil.NewTickingClock()
	store := memstore.New(clk)
	products, columns := store.Products(), store.Columns()

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	ev := formula.NewEvaluator(formula.WithLogger(zap.NewNop()), formula.WithObserver(m.ObserveFormula))
	f, err := display.NewFormatter("en-US")
	require.NoError(t, err)

	listProducts := list_products.NewQuery(products, 5)
	h := httptransport.NewHandler(
		httptransport.Commands{
			CreateProduct: create_product.NewInteractor(products, columns, clk),
			UpdateProduct: update_product.NewInteractor(products, columns, clk),
			UpdateCell:    update_cell.NewInteractor(products, columns, clk),
			DeleteProduct: delete_product.NewInteractor(products, clk),
			CreateColumn:  create_column.NewInteractor(columns, clk),
			UpdateColumn:  update_column.NewInteractor(columns, clk),
			DeleteColumn:  delete_column.NewInteractor(columns, clk),
		},
		httptransport.Queries{
			GetProduct:      get_product.NewQuery(products),
			ListProducts:    listProducts,
			ListCategories:  list_categories.NewQuery(products),
			ListColumns:     list_columns.NewQuery(columns),
			RenderTable:     render_table.NewQuery(listProducts, columns, ev, f),
			EvaluateFormula: evaluate_formula.NewQuery(products, columns, ev),
			ListEvents:      list_events.NewQuery(store.Events()),
		},
		m,
	)
	return httptransport.NewServer(h, zap.NewNop(), m, reg)
}

func do(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createProduct(t *testing.T, e *echo.Echo, body map[string]any) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/api/v1/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["product"].(map[string]any)["id"].(string)
}

func TestHealthAndRequestID(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(logger.RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(logger.RequestIDHeader))
}

func TestProductLifecycle(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodPost, "/api/v1/products", map[string]any{
		"number":    "SH-001",
		"name":      "Linen Shirt",
		"category":  "Shirts",
		"basePrice": 40,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)

	notice := created["notice"].(map[string]any)
	assert.Equal(t, "success", notice["type"])
	assert.Equal(t, 3000.0, notice["dismiss_after_ms"])

	product := created["product"].(map[string]any)
	id := product["id"].(string)
	assert.Equal(t, 50.0, product["markup25After"])
	assert.Equal(t, 395.0, product["finalPrice"])

	rec = do(t, e, http.MethodPatch, "/api/v1/products/"+id, map[string]any{"basePrice": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 110.0, decode(t, rec)["product"].(map[string]any)["pPlus10"])

	rec = do(t, e, http.MethodPut, "/api/v1/products/"+id+"/cells/basePrice", map[string]any{"value": "40"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 46.0, decode(t, rec)["product"].(map[string]any)["markup15After"])

	rec = do(t, e, http.MethodGet, "/api/v1/products/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 40.0, decode(t, rec)["basePrice"])

	rec = do(t, e, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Default", "Shirts"}, decode(t, rec)["categories"])

	rec = do(t, e, http.MethodDelete, "/api/v1/products/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["notice"].(map[string]any)["type"])

	rec = do(t, e, http.MethodGet, "/api/v1/events?aggregate_id="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, decode(t, rec)["total_count"])
}

func TestListProducts_Paging(t *testing.T) {
	e := newServer(t)
	for _, n := range []string{"A-1", "A-2", "A-3", "B-1", "B-2", "B-3"} {
		createProduct(t, e, map[string]any{"number": n, "name": "Item " + n, "basePrice": 10})
	}

	rec := do(t, e, http.MethodGet, "/api/v1/products?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	page := body["page"].(map[string]any)
	assert.Equal(t, 2.0, page["page"])
	assert.Equal(t, 2.0, page["total_pages"])
	assert.Len(t, body["products"], 1)

	rec = do(t, e, http.MethodGet, "/api/v1/products?search=b-&page_size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["products"], 3)
}

func TestErrorMapping(t *testing.T) {
	e := newServer(t)
	id := createProduct(t, e, map[string]any{"number": "SH-001", "name": "Shirt", "basePrice": 10})

	rec := do(t, e, http.MethodPost, "/api/v1/columns", map[string]any{"name": "cost", "type": "number", "editable": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	costID := decode(t, rec)["column"].(map[string]any)["id"].(string)

	rec = do(t, e, http.MethodPost, "/api/v1/columns", map[string]any{"name": "margin", "type": "formula", "formula": "{basePrice} - {cost}"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"missing name", http.MethodPost, "/api/v1/products", map[string]any{"number": "X", "basePrice": 1}, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/v1/products", map[string]any{"number": "X", "name": "Y", "basePrice": -1}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/v1/products", "not an object", http.StatusBadRequest},
		{"formula cell", http.MethodPut, "/api/v1/products/" + id + "/cells/price15", map[string]any{"value": 1}, http.StatusBadRequest},
		{"unknown cell column", http.MethodPut, "/api/v1/products/" + id + "/cells/color", map[string]any{"value": "red"}, http.StatusNotFound},
		{"missing product", http.MethodPatch, "/api/v1/products/missing", map[string]any{"name": "x"}, http.StatusNotFound},
		{"duplicate column", http.MethodPost, "/api/v1/columns", map[string]any{"name": "cost", "type": "text"}, http.StatusConflict},
		{"bad formula", http.MethodPost, "/api/v1/columns", map[string]any{"name": "x", "type": "formula", "formula": "{a"}, http.StatusBadRequest},
		{"cycle", http.MethodPost, "/api/v1/columns", map[string]any{"name": "x", "type": "formula", "formula": "{x}"}, http.StatusBadRequest},
		{"rename referenced column", http.MethodPatch, "/api/v1/columns/" + costID, map[string]any{"name": "unitCost"}, http.StatusConflict},
		{"delete referenced column", http.MethodDelete, "/api/v1/columns/" + costID, nil, http.StatusConflict},
		{"missing column", http.MethodDelete, "/api/v1/columns/missing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestColumnsAndTable(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodGet, "/api/v1/columns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["columns"], 6)

	rec = do(t, e, http.MethodPost, "/api/v1/columns", map[string]any{"name": "stock", "type": "number", "editable": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, e, http.MethodPost, "/api/v1/columns", map[string]any{"name": "value", "type": "formula", "formula": "{price25} * {stock}"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	createProduct(t, e, map[string]any{"number": "SH-001", "name": "Shirt", "basePrice": 40, "attributes": map[string]any{"stock": 2}})

	rec = do(t, e, http.MethodGet, "/api/v1/table", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decode(t, rec)
	rows := table["rows"].([]any)
	require.Len(t, rows, 1)

	cells := map[string]map[string]any{}
	for _, c := range rows[0].(map[string]any)["cells"].([]any) {
		cell := c.(map[string]any)
		cells[cell["column"].(string)] = cell
	}
	assert.Equal(t, 100.0, cells["value"]["value"])
	assert.Equal(t, "100.00", cells["value"]["display"])
	assert.Equal(t, false, cells["value"]["editable"])

	rec = do(t, e, http.MethodGet, "/api/v1/table/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "inventory.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	header, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, "value", header[0][len(header[0])-1])
}

func TestEvaluateFormula(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodPost, "/api/v1/formulas/evaluate", map[string]any{
		"formula": "max({a}, {b}) + pow(2, 3)",
		"row":     map[string]any{"a": 1, "b": 4.5},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 12.5, body["value"])
	assert.Equal(t, true, body["valid"])

	rec = do(t, e, http.MethodPost, "/api/v1/formulas/evaluate", map[string]any{"formula": "sqrt(4)"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, 0.0, body["value"])
	assert.Equal(t, false, body["valid"])

	rec = do(t, e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_formula_evaluations_total{outcome="error"} 1`), rec.Body.String())
}
