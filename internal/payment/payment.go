package payment

import "context"

type Status string

const (
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
	StatusRequiresAction Status = "requires_action"
)

// Result is the outcome of one gateway call. A failed or requires_action
// result is not an error: callers record it and move on, they never retry
// automatically.
type Result struct {
	Status       Status `json:"status"`
	ChargeID     string `json:"charge_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Gateway charges a guest's stored payment method. Implementations perform at
// most one remote call per invocation and no retries.
type Gateway interface {
	// ChargeAdditionalFees charges post-trip fees off-session against the
	// guest's saved card. amountCents is in minor units.
	ChargeAdditionalFees(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, description string, metadata map[string]string) (*Result, error)
	// ChargeBooking collects the initial rental payment.
	ChargeBooking(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, bookingID int32) (*Result, error)
	// RefundCharge refunds a previously captured charge in full or in part.
	RefundCharge(ctx context.Context, chargeID string, amountCents int64, reason string) (*Result, error)
}
