package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidParam indicates a non-finite control parameter.
	ErrInvalidParam = errors.New("dynamo: invalid parameter (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter the simulation does not define.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownMode indicates a mode other than explore or challenge.
	ErrUnknownMode = errors.New("dynamo: unknown mode")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s (%s=%v)", e.Wrapped.Error(), e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
