// Package formula serves formula evaluation over gRPC.
package formula

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/evaluate_formula"
)

// Request fields.
const (
	fieldFormula   = "formula"
	fieldRow       = "row"
	fieldProductID = "product_id"
)

// Handler implements FormulaServiceServer.
type Handler struct {
	evaluate *evaluate_formula.Query
	logger   *zap.Logger
}

// NewHandler creates a new gRPC formula handler.
func NewHandler(evaluate *evaluate_formula.Query, logger *zap.Logger) *Handler {
	return &Handler{
		evaluate: evaluate,
		logger:   logger,
	}
}

var _ FormulaServiceServer = (*Handler)(nil)

// Evaluate evaluates req.formula against req.row, or against a stored
// product when req.product_id is set. Malformed formulas evaluate to zero.
func (h *Handler) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Value, error) {
	// 1. Validate proto request
	fields := req.GetFields()
	src, ok := fields[fieldFormula].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "formula must be a string")
	}

	var row map[string]any
	if v, present := fields[fieldRow]; present {
		s, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "row must be an object")
		}
		row = s.StructValue.AsMap()
	}

	var productID string
	if v, present := fields[fieldProductID]; present {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "product_id must be a string")
		}
		productID = s.StringValue
	}

	// 2. Execute query
	resp, err := h.evaluate.Execute(ctx, &evaluate_formula.Request{
		Formula:   src.StringValue,
		Row:       row,
		ProductID: productID,
	})
	if err != nil {
		h.logger.Warn("Formula evaluation failed",
			zap.String("product_id", productID),
			zap.Error(err))
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Return number
	return structpb.NewNumberValue(resp.Value), nil
}
