package model

import "errors"

var (
	// ErrWrongLength indicates a parameter list of the wrong size.
	ErrWrongLength = errors.New("has wrong length")
	// ErrInvalidAB indicates a component code outside 11..66.
	ErrInvalidAB = errors.New("is not a valid ab component")
	// ErrNonPositive indicates a value that must be strictly positive.
	ErrNonPositive = errors.New("must be positive")
	// ErrNegative indicates a value that must not be negative.
	ErrNegative = errors.New("must not be negative")
	// ErrDepthOrder indicates interface depths that are not strictly monotonic.
	ErrDepthOrder = errors.New("must be strictly monotonic")
	// ErrShape indicates lists that cannot be broadcast against each other.
	ErrShape = errors.New("has inconsistent shape")
	// ErrZeroLength indicates a bipole whose end points coincide.
	ErrZeroLength = errors.New("has zero length")
	// ErrUnsupported indicates an option or combination the model cannot compute.
	ErrUnsupported = errors.New("is not supported")
	// ErrNotMagnetic is returned by IPAndQ for electric components.
	ErrNotMagnetic = errors.New("only implemented for magnetic fields")
	// ErrNotFrequency is returned for time-domain requests where only the
	// frequency domain is available.
	ErrNotFrequency = errors.New("only implemented for frequency")
)

// ParameterError ties a validation error to the parameter it concerns.
type ParameterError struct {
	Name string
	Err  error
}

func (e *ParameterError) Error() string {
	return "Parameter " + e.Name + " " + e.Err.Error()
}

func (e *ParameterError) Unwrap() error { return e.Err }

func paramErr(name string, err error) error {
	return &ParameterError{Name: name, Err: err}
}
