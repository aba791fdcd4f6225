package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_cell"
	"github.com/light-bringer/markup-catalog/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/markup-catalog/internal/pkg/logger"
)

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(c echo.Context) error {
	res, err := h.qry.ListProducts.Execute(c.Request().Context(), pageRequest(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toProductListResponse(res))
}

// GetProduct handles GET /api/v1/products/:id.
func (h *Handler) GetProduct(c echo.Context) error {
	p, err := h.qry.GetProduct.Execute(c.Request().Context(), &get_product.Request{ProductID: c.Param("id")})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// CreateProduct handles POST /api/v1/products.
func (h *Handler) CreateProduct(c echo.Context) error {
	var body CreateProductRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	p, err := h.cmd.CreateProduct.Execute(c.Request().Context(), &create_product.Request{
		Number:      body.Number,
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		BasePrice:   body.BasePrice,
		Attributes:  body.Attributes,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordProductOperation("create")
	logger.FromEcho(c).Info("Product created",
		zap.String("product_id", p.ID()),
		zap.String("number", p.Number()))

	return c.JSON(http.StatusCreated, ProductMutationResponse{
		Product: toProductResponse(p),
		Notice:  newNotice(NoticeSuccess, fmt.Sprintf("Product %s added", p.Number())),
	})
}

// UpdateProduct handles PATCH /api/v1/products/:id.
func (h *Handler) UpdateProduct(c echo.Context) error {
	var body UpdateProductRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	p, err := h.cmd.UpdateProduct.Execute(c.Request().Context(), &update_product.Request{
		ProductID:   c.Param("id"),
		Number:      body.Number,
		Name:        body.Name,
		Description: body.Description,
		Category:    body.Category,
		BasePrice:   body.BasePrice,
		Attributes:  body.Attributes,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordProductOperation("update")
	return c.JSON(http.StatusOK, ProductMutationResponse{
		Product: toProductResponse(p),
		Notice:  newNotice(NoticeSuccess, fmt.Sprintf("Product %s updated", p.Number())),
	})
}

// UpdateCell handles PUT /api/v1/products/:id/cells/:column.
func (h *Handler) UpdateCell(c echo.Context) error {
	var body UpdateCellRequest
	if err := c.Bind(&body); err != nil {
		return h.badRequest(c, "invalid request body")
	}

	column := c.Param("column")
	p, err := h.cmd.UpdateCell.Execute(c.Request().Context(), &update_cell.Request{
		ProductID: c.Param("id"),
		Column:    column,
		Value:     body.Value,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordProductOperation("update_cell")
	return c.JSON(http.StatusOK, ProductMutationResponse{
		Product: toProductResponse(p),
		Notice:  newNotice(NoticeSuccess, fmt.Sprintf("%s updated", column)),
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id.
func (h *Handler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.cmd.DeleteProduct.Execute(c.Request().Context(), &delete_product.Request{ProductID: id}); err != nil {
		return h.fail(c, err)
	}

	h.metrics.RecordProductOperation("delete")
	logger.FromEcho(c).Info("Product deleted", zap.String("product_id", id))

	return c.JSON(http.StatusOK, ProductMutationResponse{
		Notice: newNotice(NoticeSuccess, "Product deleted"),
	})
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(c echo.Context) error {
	cats, err := h.qry.ListCategories.Execute(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"categories": cats})
}
