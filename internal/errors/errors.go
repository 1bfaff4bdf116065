// Package errors holds the domain errors surfaced to API clients. Each carries a stable
// code that clients can switch on.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kinds group domain errors by the way clients should react to them.
const (
	KindInvalid   = "invalid"
	KindNotFound  = "not_found"
	KindConflict  = "conflict"
	KindForbidden = "forbidden"
)

type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Kind    string `json:"-"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Code: e.Code, Kind: e.Kind, Message: fmt.Sprintf(format, args...)}
}

// AsDomain extracts the DomainError wrapped in err, if any.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}
