package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("CONFLICT", "Operation not allowed in current state")
	ErrMissingConfig       = NewDomainError("CONFIGURATION_ERROR", "Required configuration is missing")
	ErrDeadlineExpired     = NewDomainError("DEADLINE_EXPIRED", "The deadline for this operation has expired")
	ErrExternalService     = NewDomainError("EXTERNAL_SERVICE_ERROR", "External service call failed")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError("VALIDATION_ERROR", message)
}

// NewConflictError creates a CONFLICT error with a specific message
func NewConflictError(message string) *DomainError {
	return NewDomainError("CONFLICT", message)
}

// NewExternalServiceError creates an EXTERNAL_SERVICE_ERROR carrying the
// message reported by the external system
func NewExternalServiceError(message string) *DomainError {
	return NewDomainError("EXTERNAL_SERVICE_ERROR", message)
}
