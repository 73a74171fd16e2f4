// Package apperr defines the closed set of error kinds the service surfaces.
// Callers match on Kind rather than on error message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure.
type Kind string

const (
	Unauthenticated      Kind = "unauthenticated"
	Forbidden            Kind = "forbidden"
	NotFound             Kind = "not_found"
	InvalidTransition    Kind = "invalid_transition"
	OwnershipMismatch    Kind = "ownership_mismatch"
	FundingRequired      Kind = "funding_required"
	FundingPending       Kind = "funding_pending"
	PayoutAccountMissing Kind = "payout_account_missing"
	PaymentProcessing    Kind = "payment_processing_error"
	Validation           Kind = "validation_error"
	Configuration        Kind = "configuration_error"
)

// Error is the result type carried across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	// Meta carries structured detail (legal transition targets, processor
	// status, ...) for the response body. Optional.
	Meta map[string]any
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New returns an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithMeta attaches structured detail and returns the error for chaining.
func (e *Error) WithMeta(meta map[string]any) *Error {
	e.Meta = meta
	return e
}

// KindOf extracts the Kind from err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps each kind to its stable transport status. Unknown errors
// map to 500 so internal failures are never mistaken for client faults.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden, OwnershipMismatch:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidTransition:
		return http.StatusConflict
	case FundingRequired, FundingPending:
		return http.StatusPaymentRequired
	case PayoutAccountMissing:
		return http.StatusUnprocessableEntity
	case PaymentProcessing:
		return http.StatusBadGateway
	case Validation:
		return http.StatusBadRequest
	case Configuration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
