package domain

import (
	"errors"
	"fmt"
)

// ErrOrderConflict is returned when another writer changed the order between
// read and update. The caller may reload and retry.
var ErrOrderConflict = errors.New("order was modified concurrently")

// ValidationError reports malformed or out-of-range input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

type UnitMismatchError struct {
	FromType string
	ToType   string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("cannot convert between unit types %q and %q", e.FromType, e.ToType)
}

type InsufficientStockError struct {
	VariantID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s (need %d, have %d)", e.VariantID, e.Requested, e.Available)
}

type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal order status transition %s -> %s", e.From, e.To)
}

// MigrationWarning is a non-fatal schema guard problem. It is logged and
// reported, never returned to abort startup.
type MigrationWarning struct {
	Type  string
	Value string
	Err   error
}

func (w *MigrationWarning) Error() string {
	return fmt.Sprintf("enum %s: value %q: %v", w.Type, w.Value, w.Err)
}

func (w *MigrationWarning) Unwrap() error { return w.Err }
