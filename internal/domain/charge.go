package domain

import "time"

type ChargeStatus string

const (
	ChargeStatusPending          ChargeStatus = "PENDING"
	ChargeStatusAdjustedPending  ChargeStatus = "ADJUSTED_PENDING"
	ChargeStatusAdjustedCharged  ChargeStatus = "ADJUSTED_CHARGED"
	ChargeStatusAdjustmentFailed ChargeStatus = "ADJUSTMENT_FAILED"
	ChargeStatusFullyWaived      ChargeStatus = "FULLY_WAIVED"
	ChargeStatusCharged          ChargeStatus = "CHARGED"
	ChargeStatusRefunded         ChargeStatus = "REFUNDED"
)

// IsFinal reports whether the charge can no longer be adjusted.
func (s ChargeStatus) IsFinal() bool {
	return s == ChargeStatusCharged || s == ChargeStatusRefunded
}

type ChargeCategory string

const (
	ChargeCategoryMileage  ChargeCategory = "mileage"
	ChargeCategoryFuel     ChargeCategory = "fuel"
	ChargeCategoryLate     ChargeCategory = "late"
	ChargeCategoryDamage   ChargeCategory = "damage"
	ChargeCategoryCleaning ChargeCategory = "cleaning"
	ChargeCategoryOther    ChargeCategory = "other"
)

// TripCharge holds the post-trip extra charges computed for a completed
// booking. One row per booking. Once Status reaches CHARGED or REFUNDED the
// record is immutable; further adjustment requests are rejected.
type TripCharge struct {
	ID        int32 `json:"id"`
	BookingID int32 `json:"booking_id"`

	MileageCents  int64 `json:"mileage_cents"`
	FuelCents     int64 `json:"fuel_cents"`
	LateCents     int64 `json:"late_cents"`
	DamageCents   int64 `json:"damage_cents"`
	CleaningCents int64 `json:"cleaning_cents"`
	OtherCents    int64 `json:"other_cents"`

	TotalCents    int64        `json:"total_cents"`
	AdjustedCents int64        `json:"adjusted_cents"`
	Status        ChargeStatus `json:"status"`

	StripeChargeID  string  `json:"stripe_charge_id,omitempty"`
	WaivePercentage float64 `json:"waive_percentage"`
	WaiveReason     string  `json:"waive_reason,omitempty"`

	// Version guards concurrent adjustment submissions. Every successful
	// adjustment bumps it; an update with a stale version affects zero rows.
	Version int32 `json:"version"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Lines expands the per-category amounts into adjustment lines, skipping
// zero-amount categories.
func (c *TripCharge) Lines() []AdjustmentLine {
	categories := []struct {
		cat   ChargeCategory
		cents int64
	}{
		{ChargeCategoryMileage, c.MileageCents},
		{ChargeCategoryFuel, c.FuelCents},
		{ChargeCategoryLate, c.LateCents},
		{ChargeCategoryDamage, c.DamageCents},
		{ChargeCategoryCleaning, c.CleaningCents},
		{ChargeCategoryOther, c.OtherCents},
	}
	var lines []AdjustmentLine
	for _, entry := range categories {
		if entry.cents == 0 {
			continue
		}
		lines = append(lines, AdjustmentLine{
			Type:          entry.cat,
			OriginalCents: entry.cents,
			AdjustedCents: entry.cents,
			Included:      true,
		})
	}
	return lines
}
