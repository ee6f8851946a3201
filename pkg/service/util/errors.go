package util

// Kind classifies the terminal domain errors of the read services.
type Kind int

const (
	KindUnknown Kind = iota
	// KindDataUnavailable: the store has no rows for the requested scope.
	KindDataUnavailable
	// KindInvalidSelector: a driver filter matched nobody.
	KindInvalidSelector
	// KindInsufficientSignal: too few usable points to derive a model.
	KindInsufficientSignal
)

// Error is a terminal domain error. The message travels verbatim to
// the caller; such failures are never retried and never partial.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by kind so callers can classify wrapped errors.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func DataUnavailable(message string) *Error {
	return &Error{Kind: KindDataUnavailable, Message: message}
}

func InvalidSelector(message string) *Error {
	return &Error{Kind: KindInvalidSelector, Message: message}
}

func InsufficientSignal(message string) *Error {
	return &Error{Kind: KindInsufficientSignal, Message: message}
}

// WrapInsufficientSignal keeps the cause chain while presenting its
// message unchanged.
func WrapInsufficientSignal(cause error) *Error {
	return &Error{Kind: KindInsufficientSignal, Message: cause.Error(), Cause: cause}
}

var (
	ErrEmptyStore    = DataUnavailable("telemetry table has no usable data")
	ErrNoSessionRows = DataUnavailable("no telemetry rows for selected session")
	ErrNoDriverMatch = InvalidSelector(
		"requested drivers not found in selected session")
	ErrNoCoordinates = DataUnavailable(
		"telemetry table has no coordinate rows for selected driver/session")
	ErrTooFewPoints = InsufficientSignal(
		"not enough usable telemetry points after dedup")
)
