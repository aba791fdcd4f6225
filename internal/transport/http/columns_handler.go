package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_column"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_column"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// ListColumns handles GET /api/v1/columns.
func (h *Handler) ListColumns(c echo.Context) error {
	cols, err := h.qry.ListColumns.Execute(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]*ColumnResponse, 0, len(cols))
	for _, col := range cols {
		out = append(out, toColumnResponse(col))
	}
	return c.JSON(http.StatusOK, map[string][]*ColumnResponse{"columns": out})
}

// CreateColumn handles POST /api/v1/columns.
func (h *Handler) CreateColumn(c echo.Context) error {
	var body CreateColumnRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	col, err := h.cmd.CreateColumn.Execute(c.Request().Context(), &create_column.Request{
		Name:     body.Name,
		Type:     body.Type,
		Formula:  body.Formula,
		Editable: body.Editable,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordColumnOperation("create")
	logger.FromEcho(c).Info("Column created",
		zap.String("column_id", col.ID()),
		zap.String("name", col.Name()),
		zap.String("type", string(col.Type())))

	return c.JSON(http.StatusCreated, ColumnMutationResponse{
		Column: toColumnResponse(col),
		Notice: newNotice(NoticeSuccess, fmt.Sprintf("Column %s added", col.Name())),
	})
}

// UpdateColumn handles PATCH /api/v1/columns/:id.
func (h *Handler) UpdateColumn(c echo.Context) error {
	var body UpdateColumnRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	col, err := h.cmd.UpdateColumn.Execute(c.Request().Context(), &update_column.Request{
		ColumnID: c.Param("id"),
		Name:     body.Name,
		Type:     body.Type,
		Formula:  body.Formula,
		Editable: body.Editable,
		Position: body.Position,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordColumnOperation("update")
	return c.JSON(http.StatusOK, ColumnMutationResponse{
		Column: toColumnResponse(col),
		Notice: newNotice(NoticeSuccess, fmt.Sprintf("Column %s updated", col.Name())),
	})
}

// DeleteColumn handles DELETE /api/v1/columns/:id.
func (h *Handler) DeleteColumn(c echo.Context) error {
	id := c.Param("id")
	if err := h.cmd.DeleteColumn.Execute(c.Request().Context(), &delete_column.Request{ColumnID: id}); err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordColumnOperation("delete")
	return c.JSON(http.StatusOK, ColumnMutationResponse{
		Notice: newNotice(NoticeSuccess, "Column deleted"),
	})
}
