package navsim

import "errors"

// The error taxonomy of the engine. Every error returned by this package wraps exactly one
// of these, so that callers can classify it with errors.Is.
var (
	// ErrInvalidInput reports a missing or non-positive amount, a malformed date or an end
	// before its start.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedSeries reports a NAV series too short to compute anything.
	ErrMalformedSeries = errors.New("malformed series")
	// ErrInsufficientData reports that no NAV is known on or before a required date.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInternal reports an unexpected arithmetic failure.
	ErrInternal = errors.New("internal error")
)

// ErrorKind returns the taxonomy name of err: "invalid_input", "malformed_series",
// "insufficient_data" or "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrMalformedSeries):
		return "malformed_series"
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	default:
		return "internal"
	}
}

// NotEnoughHistory reports whether err is caused by a NAV history that cannot support the
// requested computation.
func NotEnoughHistory(err error) bool {
	return errors.Is(err, ErrMalformedSeries) || errors.Is(err, ErrInsufficientData)
}
