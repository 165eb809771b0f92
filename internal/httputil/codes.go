package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeContentTooLarge    = "CONTENT_TOO_LARGE"
	CodeRenderFailed       = "RENDER_FAILED"
	CodeInternalError      = "INTERNAL_ERROR"
)
