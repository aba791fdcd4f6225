// Package http exposes the catalog over a JSON API served by echo.
package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_categories"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_columns"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_events"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/render_table"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_cell"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/markup-catalog/internal/metrics"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// defaultEventLimit caps GET /events when no limit is given.
const defaultEventLimit = 100

// Commands groups the write use cases.
type Commands struct {
	CreateProduct *create_product.Interactor
	UpdateProduct *update_product.Interactor
	UpdateCell    *update_cell.Interactor
	DeleteProduct *delete_product.Interactor
	CreateColumn  *create_column.Interactor
	UpdateColumn  *update_column.Interactor
	DeleteColumn  *delete_column.Interactor
}

// Queries groups the read use cases.
type Queries struct {
	GetProduct      *get_product.Query
	ListProducts    *list_products.Query
	ListCategories  *list_categories.Query
	ListColumns     *list_columns.Query
	RenderTable     *render_table.Query
	EvaluateFormula *evaluate_formula.Query
	ListEvents      *list_events.Query
}

// Handler serves the catalog API.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	cmd     Commands
	qry     Queries
	metrics *metrics.Metrics
}

// NewHandler creates a new HTTP catalog handler.
func NewHandler(cmd Commands, qry Queries, m *metrics.Metrics) *Handler {
	return &Handler{
		cmd:     cmd,
		qry:     qry,
		metrics: m,
	}
}

// fail logs err with the request's logger and writes the mapped error
// response.
func (h *Handler) fail(c echo.Context, err error) error {
	code, msg := mapDomainErrorToHTTP(err)
	log := logger.FromEcho(c)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Int("status", code), zap.Error(err))
	}
	return c.JSON(code, ErrorResponse{
		Error:  msg,
		Notice: newNotice(NoticeError, msg),
	})
}

func (h *Handler) badRequest(c echo.Context, msg string) error {
	logger.FromEcho(c).Warn("Invalid request", zap.String("reason", msg))
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  msg,
		Notice: newNotice(NoticeError, msg),
	})
}

// pageRequest reads the shared list parameters. Malformed numbers are ignored
// and fall back to defaults.
func pageRequest(c echo.Context) *list_products.Request {
	req := &list_products.Request{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		req.PageSize = size
	}
	return req
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
