package domain

import "time"

type CarStatus string

const (
	CarStatusActive      CarStatus = "ACTIVE"
	CarStatusUnlisted    CarStatus = "UNLISTED"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
)

type FuelPolicy string

const (
	FuelPolicyFullToFull FuelPolicy = "FULL_TO_FULL"
	FuelPolicySameLevel  FuelPolicy = "SAME_LEVEL"
)

type Car struct {
	ID                  int32      `json:"id"`
	HostID              int32      `json:"host_id"`
	Make                string     `json:"make"`
	Model               string     `json:"model"`
	Year                int32      `json:"year"`
	Plate               string     `json:"plate"`
	City                string     `json:"city"`
	DailyPriceCents     int64      `json:"daily_price_cents"`
	IncludedMilesPerDay int32      `json:"included_miles_per_day"`
	ExtraMileFeeCents   int64      `json:"extra_mile_fee_cents"`
	FuelPolicy          FuelPolicy `json:"fuel_policy"`
	Status              CarStatus  `json:"status"`
	Description         string     `json:"description"`
	CreatedOn           time.Time  `json:"created_on"`
	UpdatedOn           time.Time  `json:"updated_on"`
}
