package errorx

import "fmt"

// AlreadyExistsErrorf creates a CliniaError with type ErrorTypeAlreadyExists and a formatted message
func AlreadyExistsErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeAlreadyExists, fmt.Sprintf(format, args...))
}

// FailedPreconditionErrorf creates a CliniaError with type ErrorTypeFailedPrecondition and a formatted message
func FailedPreconditionErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeFailedPrecondition, fmt.Sprintf(format, args...))
}

// InternalErrorf creates a CliniaError with type ErrorTypeInternal and a formatted message
func InternalErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeInternal, fmt.Sprintf(format, args...))
}

// InvalidArgumentErrorf creates a CliniaError with type ErrorTypeInvalidArgument and a formatted message
func InvalidArgumentErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeInvalidArgument, fmt.Sprintf(format, args...))
}

// NotFoundErrorf creates a CliniaError with type ErrorTypeNotFound and a formatted message
func NotFoundErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeNotFound, fmt.Sprintf(format, args...))
}

// UnauthenticatedErrorf creates a CliniaError with type ErrorTypeUnauthenticated and a formatted message
func UnauthenticatedErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeUnauthenticated, fmt.Sprintf(format, args...))
}

// PermissionDeniedErrorf creates a CliniaError with type ErrorTypePermissionDenied and a formatted message
func PermissionDeniedErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypePermissionDenied, fmt.Sprintf(format, args...))
}

// UnavailableErrorf creates a CliniaError with type ErrorTypeUnavailable and a formatted message
func UnavailableErrorf(format string, args ...any) *CliniaError {
	return newWithStack(ErrorTypeUnavailable, fmt.Sprintf(format, args...))
}

func IsAlreadyExistsError(e error) bool {
	return isType(e, ErrorTypeAlreadyExists)
}

func IsFailedPreconditionError(e error) bool {
	return isType(e, ErrorTypeFailedPrecondition)
}

func IsInternalError(e error) bool {
	return isType(e, ErrorTypeInternal)
}

func IsInvalidArgumentError(e error) bool {
	return isType(e, ErrorTypeInvalidArgument)
}

func IsNotFoundError(e error) bool {
	return isType(e, ErrorTypeNotFound)
}

func IsUnauthenticatedError(e error) bool {
	return isType(e, ErrorTypeUnauthenticated)
}

func IsPermissionDeniedError(e error) bool {
	return isType(e, ErrorTypePermissionDenied)
}

func IsUnavailableError(e error) bool {
	return isType(e, ErrorTypeUnavailable)
}
