package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveSubmitted    NotificationType = "leave_submitted"
	TypeLeaveApproved     NotificationType = "leave_approved"
	TypeLeaveRejected     NotificationType = "leave_rejected"
	TypeLeaveCancelled    NotificationType = "leave_cancelled"
	TypePayrollCalculated NotificationType = "payroll_calculated"
	TypeTimeEntryApproved NotificationType = "time_entry_approved"
	TypeTimeEntryRejected NotificationType = "time_entry_rejected"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
