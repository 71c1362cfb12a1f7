package domain

import "time"

// RentalMessage is a guest-facing message attached to a booking, e.g. the
// summary sent after an admin adjusts trip charges.
type RentalMessage struct {
	ID          int32     `json:"id"`
	BookingID   int32     `json:"booking_id"`
	RecipientID int32     `json:"recipient_id"`
	Sender      string    `json:"sender"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	IsRead      bool      `json:"is_read"`
	CreatedOn   time.Time `json:"created_on"`
}
