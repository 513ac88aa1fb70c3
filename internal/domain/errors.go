package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an APIError independently of any transport. The
// presentation layer translates Kind/Status into protocol responses.
type Kind int

const (
	// KindValidation covers bad caller input: negative quantities,
	// unsupported pairs. Never retriable.
	KindValidation Kind = iota

	// KindNotFound means a market id was absent from a ticker snapshot.
	KindNotFound

	// KindLiquidity means an order book could not satisfy the requested
	// quantity in exact mode.
	KindLiquidity

	// KindUpstream covers exchange-side failures: non-2xx responses,
	// timeouts, connection failures, malformed payloads.
	KindUpstream
)

// APIError is the single error type crossing component boundaries. Status
// is a numeric classification (400 validation/liquidity, 404 not-found,
// 500 internal/parse, 503 unavailable, 504 timeout).
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("buda api error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsClientFault reports whether the error was caused by the caller rather
// than the upstream exchange or this process.
func (e *APIError) IsClientFault() bool {
	return e.Kind == KindValidation || e.Kind == KindNotFound || e.Kind == KindLiquidity
}

// StatusOf extracts the status classification from any error chain.
// Unclassified errors report 500.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 500
}

// NewValidationError reports invalid caller input.
func NewValidationError(format string, args ...any) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Status:  400,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFoundError reports a market id missing from a snapshot.
func NewNotFoundError(marketID string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  404,
		Message: fmt.Sprintf("market %s not found", marketID),
	}
}

// NewLiquidityError reports an order book exhausted before the requested
// quantity was filled. Market and quantity stay in the message for
// diagnosability.
func NewLiquidityError(marketID string, quantity float64) *APIError {
	return &APIError{
		Kind:    KindLiquidity,
		Status:  400,
		Message: fmt.Sprintf("insufficient liquidity in %s for quantity %v", marketID, quantity),
	}
}

// NewUpstreamError reports an exchange-side failure with its mapped status.
func NewUpstreamError(status int, message string, err error) *APIError {
	return &APIError{
		Kind:    KindUpstream,
		Status:  status,
		Message: message,
		Err:     err,
	}
}
