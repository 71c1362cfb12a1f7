package domain

import "time"

type HostApplicationStatus string

const (
	HostApplicationStatusPending  HostApplicationStatus = "PENDING"
	HostApplicationStatusApproved HostApplicationStatus = "APPROVED"
	HostApplicationStatusRejected HostApplicationStatus = "REJECTED"
)

// HostApplication is a guest's request to list cars on the platform.
type HostApplication struct {
	ID         int32                 `json:"id"`
	UserID     int32                 `json:"user_id"`
	About      string                `json:"about"`
	FleetSize  int32                 `json:"fleet_size"`
	City       string                `json:"city"`
	Status     HostApplicationStatus `json:"status"`
	ReviewNote string                `json:"review_note,omitempty"`
	ReviewedBy *int32                `json:"reviewed_by,omitempty"`
	CreatedOn  time.Time             `json:"created_on"`
	ReviewedOn *time.Time            `json:"reviewed_on,omitempty"`
}
