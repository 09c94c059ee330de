package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Use errors.Is against these; the typed errors below carry detail.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSchemaViolation   = errors.New("schema violation")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrPersistence       = errors.New("persistence error")
	ErrOrderNotFound     = errors.New("order not found")
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (f FieldError) String() string {
	if f.Param != "" {
		return fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param)
	}
	return fmt.Sprintf("%s: %s", f.Field, f.Rule)
}

// ValidationError lists every field that failed input validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Has reports whether field failed any rule.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// SchemaError is raised by the structural guard in front of the store.
type SchemaError struct {
	Field string
	Rule  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation: %s violates %s", e.Field, e.Rule)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaViolation }

// ReferenceError lists references that did not resolve.
type ReferenceError struct {
	Missing []Reference
}

func (e *ReferenceError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, string(m.Kind)+" "+m.ID)
	}
	return "reference not found: " + strings.Join(parts, ", ")
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReferenceNotFound }

// TransitionError reports a refused state change. Action is set instead of To
// for operations that do not change status, such as attaching a delivery.
type TransitionError struct {
	OrderID    string
	From       OrderStatus
	To         OrderStatus
	Action     string
	Concurrent bool
}

func (e *TransitionError) Error() string {
	if e.Concurrent {
		return fmt.Sprintf("illegal transition: order %s was modified concurrently (expected status %s)", e.OrderID, e.From)
	}
	if e.Action != "" {
		return fmt.Sprintf("illegal transition: cannot %s for order %s in status %s", e.Action, e.OrderID, e.From)
	}
	return fmt.Sprintf("illegal transition: order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrIllegalTransition }

// PersistenceError wraps a storage failure. It matches both ErrPersistence and its cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
