package sir

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is; the
// returned errors carry the offending value or year as context.
var (
	// ErrInvalidParameter reports a negative or non-finite rate, count or
	// year range, or mis-shaped backing storage.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotInitialized reports an operation called out of state-machine
	// order: Run before Initialize, Initialize twice, Run after completion,
	// or a read before the projection completed.
	ErrNotInitialized = errors.New("engine not in required state")

	// ErrOutOfRange reports a year outside the projected interval.
	ErrOutOfRange = errors.New("year out of range")

	// ErrNumericFailure is fatal: a compartment went negative, the total
	// population reached zero or a value stopped being finite.
	ErrNumericFailure = errors.New("numeric failure")
)
