package http

import (
	"errors"
	"net/http"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/domain"
)

// mapDomainErrorToHTTP converts domain errors to an HTTP status and a message
// safe to show to the client.
func mapDomainErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrColumnNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrDuplicateColumnName),
		errors.Is(err, domain.ErrColumnReferenced):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrReadOnlyField),
		errors.Is(err, domain.ErrInvalidFieldValue),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidColumnName),
		errors.Is(err, domain.ErrInvalidColumnType),
		errors.Is(err, domain.ErrFormulaRequired),
		errors.Is(err, domain.ErrUnexpectedFormula),
		errors.Is(err, domain.ErrInvalidFormula),
		errors.Is(err, domain.ErrFormulaEditable),
		errors.Is(err, domain.ErrColumnNotEditable),
		errors.Is(err, domain.ErrUnknownReference),
		errors.Is(err, domain.ErrFormulaCycle):
		return http.StatusBadRequest, err.Error()

	default:
		// Unknown error - hide details from the client
		return http.StatusInternalServerError, "internal server error"
	}
}
