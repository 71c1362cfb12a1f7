package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusOverdue   BookingStatus = "OVERDUE"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusSettled PaymentStatus = "SETTLED"
)

type RentalBooking struct {
	ID      int32 `json:"id"`
	CarID   int32 `json:"car_id"`
	GuestID int32 `json:"guest_id"`
	HostID  int32 `json:"host_id"`
	// Dates are calendar days, YYYY-MM-DD.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Price snapshot fields captured from the car at booking time.
	// All charge calculations use these snapshots, not live car prices.
	DailyPriceCents     int64 `json:"daily_price_cents"`
	IncludedMilesPerDay int32 `json:"included_miles_per_day"`
	ExtraMileFeeCents   int64 `json:"extra_mile_fee_cents"`

	TotalCents            int64         `json:"total_cents"`
	Status                BookingStatus `json:"status"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	PendingChargesCents   int64         `json:"pending_charges_cents"`
	OdometerStart         int32         `json:"odometer_start"`
	OdometerEnd           int32         `json:"odometer_end"`
	FuelLevelStart        int32         `json:"fuel_level_start"` // percent, 0-100
	FuelLevelEnd          int32         `json:"fuel_level_end"`   // percent, 0-100
	StripePaymentIntentID string        `json:"stripe_payment_intent_id,omitempty"`
	CancelReason          string        `json:"cancel_reason,omitempty"`
	CreatedOn             time.Time     `json:"created_on"`
	UpdatedOn             time.Time     `json:"updated_on"`
}
