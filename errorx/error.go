package errorx

import (
	"fmt"

	"github.com/pkg/errors"
)

type CliniaError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`

	OriginalError error `json:"-"` // Not returned to clients

	stack Callers
}

var (
	_ error = CliniaError{}
	_ error = (*CliniaError)(nil)
)

func newWithStack(t ErrorType, msg string) *CliniaError {
	return &CliniaError{
		Type:    t,
		Message: msg,
		stack:   callers(2),
	}
}

func (e CliniaError) Error() string {
	if e.OriginalError != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Type.String(), e.Message, e.OriginalError.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
}

func (e CliniaError) Unwrap() error {
	return e.OriginalError
}

// StackTrace returns the frames captured when the error was constructed.
func (e CliniaError) StackTrace() []Frame {
	return e.stack.Frames()
}

// WithOriginalError attaches the cause, which stays reachable through errors.Is and errors.As.
func (e *CliniaError) WithOriginalError(err error) *CliniaError {
	e.OriginalError = err
	return e
}

// IsCliniaError finds the first CliniaError in the chain of e, whether it was
// returned as a value or a pointer and whether or not it was wrapped.
func IsCliniaError(e error) (*CliniaError, bool) {
	if e == nil {
		return nil, false
	}

	var ptr *CliniaError
	if errors.As(e, &ptr) && ptr != nil && ptr.Type != ErrorTypeUnspecified {
		return ptr, true
	}

	var val CliniaError
	if errors.As(e, &val) && val.Type != ErrorTypeUnspecified {
		return &val, true
	}

	return nil, false
}

func isType(e error, t ErrorType) bool {
	mE, ok := IsCliniaError(e)
	if !ok {
		return false
	}

	return mE.Type == t
}
