package apperror

import "errors"

// Kind classifies an AppError so callers can decide whether to abort, report or ignore it.
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindTransport      Kind = "transport"
	KindPartialData    Kind = "partial_data"
	KindInvalidInput   Kind = "invalid_input"
)

// AppError is a custom error type that includes a kind, an HTTP status code and an optional underlying error.
type AppError struct {
	Kind    Kind
	Code    int    // HTTP Status Code used when the error reaches the API (e.g., 400, 502)
	Step    string // Remote step that failed, if any (e.g., "reserve", "confirm")
	Message string // User-facing error message
	Err     error  // The underlying error, if any
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Step != "" {
		msg = e.Step + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a kind, status code and message.
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithStep returns a copy of e attributed to the given remote step.
func (e *AppError) WithStep(step string) *AppError {
	cp := *e
	cp.Step = step
	return &cp
}

// KindOf returns the Kind of the first AppError in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// StepOf returns the Step of the first AppError in err's chain that carries one.
func StepOf(err error) string {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return ""
		}
		if appErr.Step != "" {
			return appErr.Step
		}
		err = appErr.Err
	}
	return ""
}
