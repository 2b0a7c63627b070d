package function

import (
	"errors"
	"fmt"
	"reflect"
)

// Common errors.
var (
	ErrInvalidDomainKind  = errors.New("invalid domain kind")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrParameterNotFound  = errors.New("parameter not found")
	ErrDuplicateParameter = errors.New("duplicate parameter name")
	ErrNilFunction        = errors.New("nil function")
	ErrSizeMismatch       = errors.New("size mismatch")
)

// DomainKindError reports a domain that cannot be narrowed to the shape an
// evaluation requires. It wraps ErrInvalidDomainKind.
type DomainKindError struct {
	Got  DomainKind   // Kind of the supplied domain
	Want []DomainKind // Kinds the caller accepts
}

// Error implements the error interface.
func (e *DomainKindError) Error() string {
	return fmt.Sprintf("%s: got %s, want %v", ErrInvalidDomainKind, e.Got, e.Want)
}

// Unwrap returns ErrInvalidDomainKind.
func (e *DomainKindError) Unwrap() error {
	return ErrInvalidDomainKind
}

// indexError wraps ErrIndexOutOfRange with the offending index and extent.
func indexError(what string, i, n int) error {
	return fmt.Errorf("%w: %s %d not in [0, %d)", ErrIndexOutOfRange, what, i, n)
}

// IsNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
