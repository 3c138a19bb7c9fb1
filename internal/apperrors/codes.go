package apperrors

// Code identifies the class of an application error. Handlers map codes
// to HTTP statuses; the lifecycle service maps them to outcomes.
type Code string

const (
	CodeUnknown      Code = "UNKNOWN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeExpired      Code = "EXPIRED"
	CodeInvalidState Code = "INVALID_STATE"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeAnalysis     Code = "ANALYSIS_ERROR"
	CodeTokenInvalid Code = "TOKEN_INVALID"
	CodeInternal     Code = "INTERNAL"
)
