package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// NewIdempotencyKey returns a globally unique token for deduplicating
// disbursement requests at the payout rail. A record keeps its first key for
// every retry.
func NewIdempotencyKey() string {
	return fmt.Sprintf("payout_%s", uuid.NewString())
}
