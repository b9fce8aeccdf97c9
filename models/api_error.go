package models

// Error types carried in API error bodies.
const (
	ErrorTypeAlreadyExist = "AlreadyExistException"
	ErrorTypeNotFound     = "NotFoundException"
	ErrorTypeValidation   = "ValidationException"
	ErrorTypeUnauthorized = "UnauthorizedException"
	ErrorTypeInternal     = "InternalException"
)

// APIError is the body of every non-2xx API response:
//
//	{"error": {"type": "AlreadyExistException", "message": "..."}}
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

type APIErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}
