package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("number, name and base price must be valid")
	ErrEmptyNumber     = fmt.Errorf("%w: product number cannot be empty", ErrInvalidProduct)
	ErrEmptyName       = fmt.Errorf("%w: product name cannot be empty", ErrInvalidProduct)
	ErrInvalidPrice    = fmt.Errorf("%w: base price must be a positive number", ErrInvalidProduct)

	// Field errors
	ErrReadOnlyField     = errors.New("field is read-only")
	ErrInvalidFieldValue = errors.New("invalid field value")
	ErrUnknownField      = errors.New("field does not match any column")

	// Column errors
	ErrColumnNotFound      = errors.New("column not found")
	ErrInvalidColumnName   = errors.New("column name must be non-empty and cannot contain braces")
	ErrInvalidColumnType   = errors.New("column type must be text, number or formula")
	ErrFormulaRequired     = errors.New("formula columns require a formula")
	ErrUnexpectedFormula   = errors.New("only formula columns can have a formula")
	ErrInvalidFormula      = errors.New("invalid formula")
	ErrFormulaEditable     = errors.New("formula columns cannot be editable")
	ErrColumnNotEditable   = errors.New("column is not editable")
	ErrDuplicateColumnName = errors.New("column name already exists")
	ErrUnknownReference    = errors.New("formula references an unknown column")
	ErrFormulaCycle        = errors.New("formula creates a dependency cycle")
	ErrColumnReferenced    = errors.New("column is referenced by another formula")
)
