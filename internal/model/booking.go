package model

import "time"

// BookingStatus is the lifecycle state of a training session.
type BookingStatus string

const (
	StatusPending       BookingStatus = "pending"        // client request awaiting admin review
	StatusApproved      BookingStatus = "approved"       // confirmed session
	StatusAdminApproved BookingStatus = "admin_approved" // approved by admin, forwarded to trainer
	StatusInProgress    BookingStatus = "in-progress"    // session currently running
	StatusRescheduled   BookingStatus = "rescheduled"    // displaced by a higher-priority booking
	StatusCancelled     BookingStatus = "cancelled"      // terminal for scheduling purposes
	StatusCompleted     BookingStatus = "completed"
	StatusRejected      BookingStatus = "rejected"
)

// Valid reports whether s is one of the known lifecycle states.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusAdminApproved, StatusInProgress,
		StatusRescheduled, StatusCancelled, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Booking is a training session request or scheduled session. Records are never
// deleted, only status-transitioned; cancelled bookings stay in the table but are
// excluded from all conflict checks.
type Booking struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	Title     string        `gorm:"size:256" json:"title"`
	Date      string        `gorm:"size:10;not null;index" json:"date"`      // YYYY-MM-DD, zone-naive
	StartTime string        `gorm:"size:5;not null" json:"startTime"`        // HH:MM
	EndTime   string        `gorm:"size:5;not null" json:"endTime"`          // HH:MM
	TrainerID *string       `gorm:"size:36;index" json:"trainerId,omitempty"` // nil while unassigned
	ClientID  string        `gorm:"size:36;not null;index" json:"clientId"`
	Status    BookingStatus `gorm:"size:32;not null;index" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
