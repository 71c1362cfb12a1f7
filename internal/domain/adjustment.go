package domain

import "time"

type AdjustmentStatus string

const (
	AdjustmentStatusRecorded         AdjustmentStatus = "RECORDED"
	AdjustmentStatusPaymentSucceeded AdjustmentStatus = "PAYMENT_SUCCEEDED"
	AdjustmentStatusPaymentFailed    AdjustmentStatus = "PAYMENT_FAILED"
	AdjustmentStatusWaivedInFull     AdjustmentStatus = "WAIVED_IN_FULL"
	AdjustmentStatusRefunded         AdjustmentStatus = "REFUNDED"
)

// AdjustmentLine is one categorized charge component that can be individually
// modified or excluded from an adjustment submission.
type AdjustmentLine struct {
	Type          ChargeCategory `json:"type"`
	OriginalCents int64          `json:"original_cents"`
	AdjustedCents int64          `json:"adjusted_cents"`
	Included      bool           `json:"included"`
}

// ReductionCents is how much this line was lowered by the admin. Used only
// for guest messaging; negative values (raises) are reported as zero.
func (l AdjustmentLine) ReductionCents() int64 {
	if !l.Included {
		return l.OriginalCents
	}
	if d := l.OriginalCents - l.AdjustedCents; d > 0 {
		return d
	}
	return 0
}

// ChargeAdjustment is one append-only audit entry per adjustment submission.
// Rows are never updated or deleted; the history is a log.
type ChargeAdjustment struct {
	ID              int32            `json:"id"`
	ChargeID        int32            `json:"charge_id"`
	AdminID         int32            `json:"admin_id"`
	BeforeCents     int64            `json:"before_cents"`
	AfterCents      int64            `json:"after_cents"`
	WaivePercentage float64          `json:"waive_percentage"`
	WaiveReason     string           `json:"waive_reason,omitempty"`
	Lines           []AdjustmentLine `json:"lines"`
	Status          AdjustmentStatus `json:"status"`
	StripeChargeID  string           `json:"stripe_charge_id,omitempty"`
	PaymentError    string           `json:"payment_error,omitempty"`
	AdminNotes      string           `json:"admin_notes,omitempty"`
	CreatedOn       time.Time        `json:"created_on"`
}

// AdjustmentCommit bundles every row touched by one adjustment submission.
// The charge repository persists all of it inside a single transaction.
type AdjustmentCommit struct {
	Charge     *TripCharge
	Adjustment *ChargeAdjustment
	// Booking is non-nil when a terminal outcome also settles the booking.
	Booking      *RentalBooking
	Notification *AdminNotification
	Message      *RentalMessage
}
