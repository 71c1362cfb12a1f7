package domain

import "time"

type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "NORMAL"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// AdminNotification is an informational record for the platform back office.
type AdminNotification struct {
	ID         int32                `json:"id"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Priority   NotificationPriority `json:"priority"`
	IsRead     bool                 `json:"is_read"`
	Attributes map[string]string    `json:"attributes,omitempty"`
	CreatedOn  time.Time            `json:"created_on"`
}
