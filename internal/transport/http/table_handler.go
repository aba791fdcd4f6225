package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/export"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// exportFilename is the attachment name of table exports.
const exportFilename = "inventory.xlsx"

// RenderTable handles GET /api/v1/table.
func (h *Handler) RenderTable(c echo.Context) error {
	table, err := h.qry.RenderTable.Execute(c.Request().Context(), pageRequest(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// ExportTable handles GET /api/v1/table/export.
func (h *Handler) ExportTable(c echo.Context) error {
	table, err := h.qry.RenderTable.Execute(c.Request().Context(), pageRequest(c))
	if err != nil {
		return h.fail(c, err)
	}

	data, err := export.Workbook(table)
	if err != nil {
		return h.fail(c, err)
	}

	logger.FromEcho(c).Info("Table exported",
		zap.Int("rows", len(table.Rows)),
		zap.Int("bytes", len(data)))

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportFilename))
	return c.Blob(http.StatusOK, export.ContentType, data)
}

// EvaluateFormula handles POST /api/v1/formulas/evaluate.
func (h *Handler) EvaluateFormula(c echo.Context) error {
	var body EvaluateFormulaRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	resp, err := h.qry.EvaluateFormula.Execute(c.Request().Context(), &evaluate_formula.Request{
		Formula:   body.Formula,
		Row:       body.Row,
		ProductID: body.ProductID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
