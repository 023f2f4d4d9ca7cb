package seekql

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common build failures.
var (
	// ErrMissingFilter is returned when an UPDATE or DELETE is built
	// without a filter. Unconditional mutations are never emitted; a
	// caller that really wants "all rows" must say so with an explicit
	// always-true filter.
	ErrMissingFilter = errors.New("seekql: statement requires a filter")

	// ErrInvalidCursor is returned when a continuation token is
	// malformed, was issued for a different sort, or carries values
	// that cannot be typed against the schema.
	ErrInvalidCursor = errors.New("seekql: invalid cursor")

	// ErrInvalidPagination is returned when a pagination request is
	// structurally unusable (page or limit below one, or cursor
	// pagination without a sort order).
	ErrInvalidPagination = errors.New("seekql: invalid pagination")
)

// UnknownTableError is returned when a spec references a table that was
// never registered with the schema.
type UnknownTableError struct {
	Table string
}

// Error returns the error string.
func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("seekql: unknown table %q", e.Table)
}

// NewUnknownTableError returns a new UnknownTableError for the given table.
func NewUnknownTableError(table string) *UnknownTableError {
	return &UnknownTableError{Table: table}
}

// IsUnknownTable returns true if the error is an UnknownTableError.
func IsUnknownTable(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownTableError
	return errors.As(err, &e)
}

// UnknownFieldError is returned when a filter, sort, or column list
// references a field outside the table's allow-list.
type UnknownFieldError struct {
	Table string
	Field string
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("seekql: unknown field %q on table %q", e.Field, e.Table)
}

// NewUnknownFieldError returns a new UnknownFieldError.
func NewUnknownFieldError(table, field string) *UnknownFieldError {
	return &UnknownFieldError{Table: table, Field: field}
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// TypeMismatchError is returned when a literal's type disagrees with
// the column's declared type.
type TypeMismatchError struct {
	Field string
	Want  string // Declared column type.
	Value any    // Offending literal.
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("seekql: value %v (%T) is not assignable to %s column %q", e.Value, e.Value, e.Want, e.Field)
}

// NewTypeMismatchError returns a new TypeMismatchError.
func NewTypeMismatchError(field, want string, value any) *TypeMismatchError {
	return &TypeMismatchError{Field: field, Want: want, Value: value}
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e)
}

// EmptyLogicalGroupError is returned when an AND/OR node has no
// children, a NOT node does not have exactly one child, or a membership
// predicate carries no values.
type EmptyLogicalGroupError struct {
	Op    string // Logical operator or predicate kind.
	Count int    // Number of children supplied.
}

// Error returns the error string.
func (e *EmptyLogicalGroupError) Error() string {
	if e.Op == "not" && e.Count != 1 {
		return fmt.Sprintf("seekql: NOT takes exactly one child, got %d", e.Count)
	}
	return fmt.Sprintf("seekql: %s group has no children", e.Op)
}

// NewEmptyLogicalGroupError returns a new EmptyLogicalGroupError.
func NewEmptyLogicalGroupError(op string, count int) *EmptyLogicalGroupError {
	return &EmptyLogicalGroupError{Op: op, Count: count}
}

// IsEmptyLogicalGroup returns true if the error is an EmptyLogicalGroupError.
func IsEmptyLogicalGroup(err error) bool {
	if err == nil {
		return false
	}
	var e *EmptyLogicalGroupError
	return errors.As(err, &e)
}

// InvalidRangeError is returned when a BETWEEN predicate's lower bound
// orders after its upper bound.
type InvalidRangeError struct {
	Field string
	Low   any
	High  any
}

// Error returns the error string.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("seekql: invalid range on %q: low %v > high %v", e.Field, e.Low, e.High)
}

// NewInvalidRangeError returns a new InvalidRangeError.
func NewInvalidRangeError(field string, low, high any) *InvalidRangeError {
	return &InvalidRangeError{Field: field, Low: low, High: high}
}

// IsInvalidRange returns true if the error is an InvalidRangeError.
func IsInvalidRange(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidRangeError
	return errors.As(err, &e)
}

// InvalidIdentifierError is returned when a table or column name fails
// the identifier grammar, including any name containing the dialect's
// quote character.
type InvalidIdentifierError struct {
	Name    string
	Context string // What the identifier names: "table", "column", ...
}

// Error returns the error string.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("seekql: invalid %s identifier %q", e.Context, e.Name)
}

// NewInvalidIdentifierError returns a new InvalidIdentifierError.
func NewInvalidIdentifierError(name, context string) *InvalidIdentifierError {
	return &InvalidIdentifierError{Name: name, Context: context}
}

// IsInvalidIdentifier returns true if the error is an InvalidIdentifierError.
func IsInvalidIdentifier(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidIdentifierError
	return errors.As(err, &e)
}

// PageSizeExceededError is returned when a requested limit exceeds the
// builder's configured maximum.
type PageSizeExceededError struct {
	Limit int
	Max   int
}

// Error returns the error string.
func (e *PageSizeExceededError) Error() string {
	return fmt.Sprintf("seekql: page size %d exceeds maximum %d", e.Limit, e.Max)
}

// NewPageSizeExceededError returns a new PageSizeExceededError.
func NewPageSizeExceededError(limit, max int) *PageSizeExceededError {
	return &PageSizeExceededError{Limit: limit, Max: max}
}

// IsPageSizeExceeded returns true if the error is a PageSizeExceededError.
func IsPageSizeExceeded(err error) bool {
	if err == nil {
		return false
	}
	var e *PageSizeExceededError
	return errors.As(err, &e)
}

// InvalidCursorError wraps the reason a continuation token was rejected.
type InvalidCursorError struct {
	Reason string
}

// Error returns the error string.
func (e *InvalidCursorError) Error() string {
	return fmt.Sprintf("seekql: invalid cursor: %s", e.Reason)
}

// Is reports whether the target error matches InvalidCursorError.
// This allows errors.Is(cursorErr, ErrInvalidCursor) to return true.
func (e *InvalidCursorError) Is(err error) bool {
	return err == ErrInvalidCursor
}

// NewInvalidCursorError returns a new InvalidCursorError with the given reason.
func NewInvalidCursorError(reason string) *InvalidCursorError {
	return &InvalidCursorError{Reason: reason}
}

// IsInvalidCursor returns true if the error is an InvalidCursorError.
func IsInvalidCursor(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidCursorError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidCursor)
}

// UnsupportedDialectFeatureError is returned when a spec requires a
// capability the configured dialect does not have, such as RETURNING.
type UnsupportedDialectFeatureError struct {
	Dialect string
	Feature string
}

// Error returns the error string.
func (e *UnsupportedDialectFeatureError) Error() string {
	return fmt.Sprintf("seekql: dialect %q does not support %s", e.Dialect, e.Feature)
}

// NewUnsupportedDialectFeatureError returns a new UnsupportedDialectFeatureError.
func NewUnsupportedDialectFeatureError(dialect, feature string) *UnsupportedDialectFeatureError {
	return &UnsupportedDialectFeatureError{Dialect: dialect, Feature: feature}
}

// IsUnsupportedDialectFeature returns true if the error is an
// UnsupportedDialectFeatureError.
func IsUnsupportedDialectFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedDialectFeatureError
	return errors.As(err, &e)
}
