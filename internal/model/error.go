package model

import "fmt"

// ErrorKind classifies a domain error for the HTTP boundary.
type ErrorKind string

const (
	KindNotFound    ErrorKind = "not_found"
	KindValidation  ErrorKind = "validation"
	KindConflict    ErrorKind = "conflict"
	KindAuthFailure ErrorKind = "auth_failure"
	KindForbidden   ErrorKind = "forbidden"
	KindUpstream    ErrorKind = "upstream"
	KindInternal    ErrorKind = "internal"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeCartNotFound         = "CART_NOT_FOUND"
	ErrCodeCartItemNotFound     = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidShippingField = "INVALID_SHIPPING_FIELD"
	ErrCodeInvalidOrderItems    = "INVALID_ORDER_ITEMS"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeAlreadyDelivered     = "ALREADY_DELIVERED"
	ErrCodeOrderNotDeletable    = "ORDER_NOT_DELETABLE"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeDuplicatePayment     = "DUPLICATE_PAYMENT"
	ErrCodeSignatureInvalid     = "SIGNATURE_INVALID"
	ErrCodePaymentNotConfirmed  = "PAYMENT_NOT_CONFIRMED"
	ErrCodeAmountMismatch       = "AMOUNT_MISMATCH"
	ErrCodeCurrencyMismatch     = "CURRENCY_MISMATCH"
	ErrCodeUnsupportedCurrency  = "UNSUPPORTED_CURRENCY"
	ErrCodeUnsupportedGateway   = "UNSUPPORTED_GATEWAY"
	ErrCodeGatewayUnavailable   = "GATEWAY_UNAVAILABLE"
	ErrCodeGatewayRejected      = "GATEWAY_REJECTED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a typed business error. Two domain errors are equal under
// errors.Is when their codes match, so detailed instances still match the
// sentinel they were derived from.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithMessage returns a copy of the error carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrProductNotFound     = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrCartNotFound        = NewDomainError(KindNotFound, ErrCodeCartNotFound, "Cart not found")
	ErrCartItemNotFound    = NewDomainError(KindNotFound, ErrCodeCartItemNotFound, "Item not found in cart")
	ErrOrderNotFound       = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity     = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidShipping     = NewDomainError(KindValidation, ErrCodeInvalidShippingField, "Pincode and phone number must be numeric")
	ErrInvalidOrderItems   = NewDomainError(KindValidation, ErrCodeInvalidOrderItems, "Order must contain at least one valid item")
	ErrInvalidStatus       = NewDomainError(KindValidation, ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidAmount       = NewDomainError(KindValidation, ErrCodeInvalidAmount, "Amount must be greater than zero")
	ErrInsufficientStock   = NewDomainError(KindConflict, ErrCodeInsufficientStock, "Not enough stock available")
	ErrAlreadyDelivered    = NewDomainError(KindConflict, ErrCodeAlreadyDelivered, "You have already delivered this order")
	ErrOrderNotDeletable   = NewDomainError(KindConflict, ErrCodeOrderNotDeletable, "Only delivered orders can be deleted")
	ErrInvalidTransition   = NewDomainError(KindConflict, ErrCodeInvalidTransition, "Order status transition not allowed")
	ErrDuplicatePayment    = NewDomainError(KindConflict, ErrCodeDuplicatePayment, "An order already exists for this payment")
	ErrSignatureInvalid    = NewDomainError(KindAuthFailure, ErrCodeSignatureInvalid, "Payment verification failed: invalid signature")
	ErrPaymentNotConfirmed = NewDomainError(KindAuthFailure, ErrCodePaymentNotConfirmed, "Payment not confirmed by gateway")
	ErrAmountMismatch      = NewDomainError(KindAuthFailure, ErrCodeAmountMismatch, "Payment amount mismatch")
	ErrCurrencyMismatch    = NewDomainError(KindAuthFailure, ErrCodeCurrencyMismatch, "Payment currency mismatch")
	ErrUnsupportedCurrency = NewDomainError(KindValidation, ErrCodeUnsupportedCurrency, "Unsupported payment currency")
	ErrUnauthorised        = NewDomainError(KindAuthFailure, ErrCodeUnauthorised, "Please login to access this resource")
	ErrForbidden           = NewDomainError(KindForbidden, ErrCodeForbidden, "You are not allowed to access this resource")
	ErrUnsupportedGateway  = NewDomainError(KindValidation, ErrCodeUnsupportedGateway, "Unsupported payment gateway")
	ErrGatewayUnavailable  = NewDomainError(KindUpstream, ErrCodeGatewayUnavailable, "Payment gateway unavailable")
	ErrGatewayRejected     = NewDomainError(KindValidation, ErrCodeGatewayRejected, "Payment gateway rejected the request")
)

// NewInsufficientStockError reports how many units are actually available.
func NewInsufficientStockError(available int) *DomainError {
	return ErrInsufficientStock.WithMessage("Only %d items available in stock", available)
}
