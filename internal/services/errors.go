package services

import (
	"errors"
	"sort"
	"strings"
)

// Cart mutation rejections. The cart is left unchanged when these are returned.
var (
	ErrBelowMinimumOrder  = errors.New("quantity is below the minimum order")
	ErrExceedsStock       = errors.New("quantity exceeds available stock")
	ErrItemNotFound       = errors.New("item not in cart")
	ErrCheckoutInProgress = errors.New("checkout in progress")
)

// Checkout blocks. The caller is sent back to cart editing.
var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrMOQViolation = errors.New("cart has lines below minimum order")
)

// External collaborator failures. The cart is preserved for a retry.
var (
	ErrSinkUnavailable  = errors.New("order sink unavailable")
	ErrSinkRejected     = errors.New("order sink rejected the order")
	ErrGatewayCancelled = errors.New("payment cancelled")
	ErrGatewayFailed    = errors.New("payment failed")
	ErrPaymentDisabled  = errors.New("online payment is not configured")
	ErrNoPendingPayment = errors.New("no payment pending for this order")
	ErrOrderFailed      = errors.New("failed to place order")
	ErrFeedUnavailable  = errors.New("catalogue feed unavailable")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProofRevoked       = errors.New("dealer proof was logged out")
	ErrProductNotFound    = errors.New("product not found")
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrLookupUnavailable  = errors.New("order lookup unavailable")
)

// ValidationErrors maps a contact field name to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
