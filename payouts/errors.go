package payouts

import (
	"errors"
	"fmt"
)

var ErrPayoutNotFound = errors.New("payout record not found")

// StateConflictError means the record is not in a disbursable state. It
// usually indicates a duplicate trigger or a race with another operator.
type StateConflictError struct {
	Status string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("payout is already %s", e.Status)
}

// ValidationError is an actionable precondition failure. No external call was
// made and the record was not touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// GatewayError wraps a rejection or timeout from the payout rail. The record
// keeps its previous status so a later retry can reuse the same idempotency
// key.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payout rail error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
