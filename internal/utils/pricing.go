package utils

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// RentalDays returns the inclusive day count of a rental window. A same-day
// rental counts as one day.
func RentalDays(startDate, endDate string) (int32, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	diff := int32(end.Sub(start).Hours() / 24)
	if diff < 0 {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	return diff + 1, nil
}

// BookingTotalCents is the upfront rental price.
func BookingTotalCents(days int32, dailyPriceCents int64) int64 {
	return int64(days) * dailyPriceCents
}

// ExtraMileageCents charges every mile driven beyond the included allowance.
func ExtraMileageCents(milesDriven, includedPerDay, days int32, extraMileFeeCents int64) int64 {
	included := includedPerDay * days
	extra := milesDriven - included
	if extra <= 0 {
		return 0
	}
	return int64(extra) * extraMileFeeCents
}

// FuelServiceCents charges each started 10% the tank came back below its
// pickup level.
func FuelServiceCents(startLevel, endLevel int32, feePerTenthCents int64) int64 {
	deficit := startLevel - endLevel
	if deficit <= 0 {
		return 0
	}
	tenths := (deficit + 9) / 10
	return int64(tenths) * feePerTenthCents
}

// LateDays counts the started days between the agreed end date and the actual
// return date.
func LateDays(endDate string, returnedAt time.Time) int32 {
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0
	}
	// Grace until end of the agreed return day.
	deadline := end.AddDate(0, 0, 1)
	if !returnedAt.After(deadline) {
		return 0
	}
	late := returnedAt.Sub(deadline)
	return int32(math.Ceil(late.Hours() / 24))
}

// LateFeeCents charges the daily rate for each started late day.
func LateFeeCents(lateDays int32, dailyPriceCents int64) int64 {
	if lateDays <= 0 {
		return 0
	}
	return int64(lateDays) * dailyPriceCents
}

// ApplyWaiver multiplies a subtotal by (1 - pct/100), rounded half-up to the
// nearest cent and floored at zero.
func ApplyWaiver(subtotalCents int64, waivePercentage float64) int64 {
	if waivePercentage <= 0 {
		if subtotalCents < 0 {
			return 0
		}
		return subtotalCents
	}
	if waivePercentage >= 100 {
		return 0
	}
	final := int64(math.Round(float64(subtotalCents) * (1 - waivePercentage/100)))
	if final < 0 {
		return 0
	}
	return final
}
