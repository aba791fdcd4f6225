package http

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/metrics"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// RequestID assigns every request an id, reusing a client-supplied
// X-Request-ID, and echoes it back in the response.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDHeader, requestID)
		}
		c.Response().Header().Set(logger.RequestIDHeader, requestID)
		logger.SetRequestID(c, requestID)
		return next(c)
	}
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(h *Handler, log *zap.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(RequestID)
	e.Use(logger.Middleware(log))
	e.Use(m.Middleware)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	h.Register(e.Group("/api/v1"))
	return e
}

// Register mounts the catalog API on g.
func (h *Handler) Register(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.POST("/products", h.CreateProduct)
	g.GET("/products/:id", h.GetProduct)
	g.PATCH("/products/:id", h.UpdateProduct)
	g.DELETE("/products/:id", h.DeleteProduct)
	g.PUT("/products/:id/cells/:column", h.UpdateCell)

	g.GET("/categories", h.ListCategories)

	g.GET("/columns", h.ListColumns)
	g.POST("/columns", h.CreateColumn)
	g.PATCH("/columns/:id", h.UpdateColumn)
	g.DELETE("/columns/:id", h.DeleteColumn)

	g.GET("/table", h.RenderTable)
	g.GET("/table/export", h.ExportTable)
	g.POST("/formulas/evaluate", h.EvaluateFormula)

	g.GET("/events", h.ListEvents)
}
