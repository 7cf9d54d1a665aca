package pricing

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is wrapped by every DomainError.
	ErrInvalidInput = errors.New("invalid pricing input")

	// ErrUnknownOptionType is returned for anything other than Call or Put.
	ErrUnknownOptionType = errors.New("unknown option type")

	// ErrInsufficientData is returned when too few closes are available to
	// estimate volatility.
	ErrInsufficientData = errors.New("insufficient price history")
)

// DomainError reports the parameter whose precondition was violated.
type DomainError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %g", ErrInvalidInput, e.Param, e.Reason, e.Value)
}

func (e *DomainError) Unwrap() error { return ErrInvalidInput }
