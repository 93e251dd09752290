package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedLink is returned when a link column's target does not exist.
	ErrUnresolvedLink = errors.New("unresolved link target")

	// ErrUnknownOperator is returned for unrecognized filter operators in strict mode.
	ErrUnknownOperator = errors.New("unknown filter operator")

	// ErrUnknownColumn is returned when a filter or order names a missing column.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidArgument is returned for malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoPrimaryKey is returned when a lookup cannot identify a row.
	ErrNoPrimaryKey = errors.New("no primary key")
)

// CompileError is a failure to compile one tree.
type CompileError struct {
	Table string
	Field string
	Cause error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("compile %s.%s: %v", e.Table, e.Field, e.Cause)
	}
	return fmt.Sprintf("compile %s: %v", e.Table, e.Cause)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *CompileError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// QueryError is a backend failure while running a statement.
type QueryError struct {
	Operation string
	Table     string
	Query     string
	Cause     error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s on %s: %v", e.Operation, e.Table, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *QueryError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewQueryError creates a new QueryError.
func NewQueryError(op, table, query string, cause error) *QueryError {
	return &QueryError{
		Operation: op,
		Table:     table,
		Query:     query,
		Cause:     cause,
	}
}
