package common

// APIResponse is the flat envelope returned by every JSON endpoint
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Code    ErrorCode         `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Define type for error codes to enforce consistency
type ErrorCode string

// Standard error codes. Enquiry pipeline failures use their Kind as the code.
const (
	ErrCodeBadRequest       ErrorCode = "BadRequest"
	ErrCodeForbidden        ErrorCode = "Forbidden"
	ErrCodeNotFound         ErrorCode = "NotFound"
	ErrCodeMethodNotAllowed ErrorCode = "MethodNotAllowed"
	ErrCodeTooLarge         ErrorCode = "RequestTooLarge"
	ErrCodeTooManyRequests  ErrorCode = "TooManyRequests"
	ErrCodeInternalServer   ErrorCode = "InternalServerError"
	ErrCodeUnavailable      ErrorCode = "ServiceUnavailable"
)

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse(message string) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates a new error API response
func NewErrorResponse(code ErrorCode, message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	}
}
