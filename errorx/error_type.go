package errorx

// ErrorType is the coarse class of a CliniaError, named after the gRPC status codes.
type ErrorType string

const (
	// ErrorTypeUnspecified only marks values that are not a CliniaError.
	ErrorTypeUnspecified        = ErrorType("")
	ErrorTypeAlreadyExists      = ErrorType("ALREADY_EXISTS")
	ErrorTypeFailedPrecondition = ErrorType("FAILED_PRECONDITION")
	ErrorTypeInternal           = ErrorType("INTERNAL")
	ErrorTypeInvalidArgument    = ErrorType("INVALID_ARGUMENT")
	ErrorTypeNotFound           = ErrorType("NOT_FOUND")
	ErrorTypeUnauthenticated    = ErrorType("UNAUTHENTICATED")
	ErrorTypePermissionDenied   = ErrorType("PERMISSION_DENIED")
	ErrorTypeUnavailable        = ErrorType("UNAVAILABLE")
)

func (e ErrorType) String() string {
	return string(e)
}
