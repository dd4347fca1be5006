package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrInvalidArgument  = errors.New("invalid argument")

	// store failure kinds, carried by StoreError
	ErrUnavailable = errors.New("store unavailable")
	ErrThrottled   = errors.New("store throttled")
	ErrInternal    = errors.New("internal error")
)

// FieldError 單一欄位的驗證失敗
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field that failed validation in one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error; nil is ignored.
func (e *ValidationError) Add(fe *FieldError) {
	if fe != nil {
		e.Errors = append(e.Errors, *fe)
	}
}

// ErrOrNil returns nil when no field failed, so callers can `return v.ErrOrNil()`.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// StoreError is a classified failure of the backing store.
// Kind is one of ErrUnavailable, ErrThrottled, ErrInvalidArgument or ErrInternal.
type StoreError struct {
	Kind error
	Op   string
	Err  error
}

func NewStoreError(kind error, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is / errors.As.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidArgument wraps ErrInvalidArgument with a client-facing message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
