package model

import "time"

// WindowStatus says whether a declared availability window accepts bookings.
type WindowStatus string

const (
	WindowOpen   WindowStatus = "open"
	WindowClosed WindowStatus = "closed"
)

// AvailabilityWindow is a trainer-declared interval during which they accept new
// bookings. Its lifecycle is independent from Booking: trainers create and close
// windows, the scheduler only reads them.
type AvailabilityWindow struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	TrainerID   string       `gorm:"size:36;not null;index" json:"trainerId"`
	Date        string       `gorm:"size:10;not null;index" json:"date"`
	StartTime   string       `gorm:"size:5;not null" json:"startTime"`
	EndTime     string       `gorm:"size:5;not null" json:"endTime"`
	MaxTrainees int          `gorm:"not null;default:50" json:"maxTrainees"`
	Status      WindowStatus `gorm:"size:16;not null;default:open" json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
