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
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput   = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized   = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden      = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNetwork        = NewDomainError("NETWORK_ERROR", "Request to the server failed")
	ErrValidation     = NewDomainError("VALIDATION_ERROR", "Request rejected by validation")
	ErrStockConflict  = NewDomainError("STOCK_CONFLICT", "Requested quantity exceeds known stock")
	ErrPaymentGateway = NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment gateway reported a failure")
)
