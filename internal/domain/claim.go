package domain

import "time"

type ClaimStatus string

const (
	ClaimStatusFiled       ClaimStatus = "FILED"
	ClaimStatusUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimStatusApproved    ClaimStatus = "APPROVED"
	ClaimStatusDenied      ClaimStatus = "DENIED"
	ClaimStatusSettled     ClaimStatus = "SETTLED"
)

type IncidentType string

const (
	IncidentTypeCollision IncidentType = "COLLISION"
	IncidentTypeTheft     IncidentType = "THEFT"
	IncidentTypeVandalism IncidentType = "VANDALISM"
	IncidentTypeInterior  IncidentType = "INTERIOR_DAMAGE"
	IncidentTypeOther     IncidentType = "OTHER"
)

// Claim is a damage/incident claim on a booking. The incident fields form the
// first notice of loss.
type Claim struct {
	ID             int32        `json:"id"`
	BookingID      int32        `json:"booking_id"`
	FiledBy        int32        `json:"filed_by"`
	Reference      string       `json:"reference"`
	IncidentDate   string       `json:"incident_date"` // YYYY-MM-DD
	IncidentType   IncidentType `json:"incident_type"`
	Description    string       `json:"description"`
	PhotoURLs      []string     `json:"photo_urls,omitempty"`
	EstimatedCents int64        `json:"estimated_cents"`
	Status         ClaimStatus  `json:"status"`
	ResolutionNote string       `json:"resolution_note,omitempty"`
	ReviewedBy     *int32       `json:"reviewed_by,omitempty"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}
