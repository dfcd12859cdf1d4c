package model

import "time"

// Trainer conducts training sessions and declares availability windows.
type Trainer struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	Email          string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Phone          string    `gorm:"size:32" json:"phone"`
	Specialization string    `gorm:"size:128" json:"specialization"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Client requests training sessions. PriorityScore ranks the client in scheduling
// disputes (higher wins); it is admin-managed and read-only for the scheduler.
// Clients missing from a priority snapshot default to 0.
type Client struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Phone         string    `gorm:"size:32" json:"phone"`
	PriorityScore int       `gorm:"not null;default:0" json:"priorityScore"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
