// Package errs defines the stable error kinds propagated out of the
// telemetry analysis core (spec §7). Callers distinguish kinds with
// errors.Is against the sentinel values, not by inspecting messages.
package errs

import "fmt"

// Kind is a stable, stringable error tag.
type Kind string

const (
	MalformedCapture       Kind = "MalformedCapture"
	UnsupportedChannelType Kind = "UnsupportedChannelType"
	MissingChannel         Kind = "MissingChannel"
	NoUsableLap            Kind = "NoUsableLap"
	TrackStoreUnavailable  Kind = "TrackStoreUnavailable"
	SeedingFailed          Kind = "SeedingFailed"
	Cancelled              Kind = "Cancelled"
	Internal               Kind = "Internal"
)

// Error wraps an underlying cause with one of the stable Kinds above.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's Kind, so
// callers can write errors.Is(err, errs.NoUsableLap).
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New constructs an *Error for op with the given kind and cause.
func New(op string, kind Kind, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Error makes a bare Kind an error value, so it can be used directly as an
// errors.Is target: errors.Is(err, errs.NoUsableLap).
func (k Kind) Error() string { return string(k) }

func (k Kind) Is(target error) bool {
	other, ok := target.(Kind)
	return ok && other == k
}
