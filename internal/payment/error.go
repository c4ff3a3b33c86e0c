package payment

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDuplicatePayment = errors.New("payment already recorded for this pidx")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPendingNotFound  = errors.New("no pending checkout for this pidx")
)

// VerificationError reports a failed gateway verification along with the
// gateway's own payload so the storefront can show what the gateway said.
type VerificationError struct {
	Reason  string
	Payload json.RawMessage
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed: %s", e.Reason)
}
