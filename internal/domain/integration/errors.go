package integration

import (
	"context"
	"errors"

	"github.com/erp/catalogsync/internal/domain/shared"
)

// Remote catalog errors
var (
	// ErrSourceNotFound indicates the remote catalog has no such record
	ErrSourceNotFound = errors.New("integration: remote record not found")
	// ErrSourceUnavailable indicates the remote catalog could not be reached
	ErrSourceUnavailable = errors.New("integration: remote catalog unavailable")
	// ErrSourceInvalidResponse indicates the remote catalog returned an undecodable body
	ErrSourceInvalidResponse = errors.New("integration: invalid response from remote catalog")
	// ErrSourceNotConfigured indicates base URL or token are missing
	ErrSourceNotConfigured = errors.New("integration: remote catalog not configured")
)

// Synchronization errors
var (
	// ErrUnknownProductType indicates a type classifier outside simple|configurable|grouped|bundle|virtual
	ErrUnknownProductType = errors.New("integration: unknown product type")
	// ErrNoProductType indicates no local product type exists for the product's attribute set
	ErrNoProductType = errors.New("integration: no local product type for attribute set")
	// ErrNoVariations indicates the pass produced zero variations
	ErrNoVariations = errors.New("integration: product has no resolvable variations")
	// ErrSKULocked indicates another worker holds the SKU
	ErrSKULocked = errors.New("integration: sku is being synchronized by another worker")
	// ErrPersistence wraps repository failures surfaced by the synchronizer
	ErrPersistence = errors.New("integration: persistence failure")
	// ErrInvalidSKU indicates an empty or blank SKU
	ErrInvalidSKU = errors.New("integration: sku cannot be empty")
	// ErrInvalidCurrency indicates a currency code that is not a three-letter ISO code
	ErrInvalidCurrency = errors.New("integration: invalid currency code")
)

// ErrorClass buckets synchronization errors for logs and metrics
type ErrorClass string

const (
	ErrorClassNone         ErrorClass = "none"
	ErrorClassNotFound     ErrorClass = "not_found"
	ErrorClassPersistence  ErrorClass = "persistence"
	ErrorClassTransport    ErrorClass = "transport"
	ErrorClassPrecondition ErrorClass = "precondition"
	ErrorClassConflict     ErrorClass = "conflict"
	ErrorClassCancelled    ErrorClass = "cancelled"
)

// String returns the string representation of ErrorClass
func (c ErrorClass) String() string {
	return string(c)
}

// Classify maps an error onto one of the error classes.
func Classify(err error) ErrorClass {
	switch {
	case err == nil:
		return ErrorClassNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorClassCancelled
	case errors.Is(err, ErrSKULocked):
		return ErrorClassConflict
	case errors.Is(err, ErrSourceNotFound), errors.Is(err, shared.ErrNotFound):
		return ErrorClassNotFound
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, ErrSourceInvalidResponse),
		errors.Is(err, ErrSourceNotConfigured):
		return ErrorClassTransport
	case errors.Is(err, ErrNoProductType), errors.Is(err, ErrNoVariations),
		errors.Is(err, ErrUnknownProductType), errors.Is(err, ErrInvalidSKU),
		errors.Is(err, ErrInvalidCurrency):
		return ErrorClassPrecondition
	default:
		return ErrorClassPersistence
	}
}

// IsAbsent reports whether err means "nothing there": not found or unreachable.
// Transport failures are logged at the client boundary and handled like not-found.
func IsAbsent(err error) bool {
	class := Classify(err)
	return class == ErrorClassNotFound || class == ErrorClassTransport
}
