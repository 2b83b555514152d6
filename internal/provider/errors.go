package provider

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	// ErrConfiguration: unknown logical provider name. Not retryable.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuthentication: the provider's credential is not set. Needs operator action.
	ErrAuthentication = errors.New("authentication error")
	// ErrDependency: the backend client could not be initialised in this runtime.
	ErrDependency = errors.New("dependency error")
	// ErrGeneration: the backend call failed or returned nothing usable. Retryable.
	ErrGeneration = errors.New("generation error")
)

// Error carries the provider name alongside one of the error kinds.
type Error struct {
	Kind     error
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Kind, e.Err)
}

// Is matches the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap exposes the underlying vendor or lookup error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}
