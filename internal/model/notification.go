package model

import "time"

// NotificationType mirrors the severity levels the dashboards render.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
)

// Notification is one entry in a user's feed. It is also the unit of web-push
// delivery: the worker pool is dispatched notification IDs and pushes the message
// to every subscription the user has registered.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"size:36;not null;index" json:"userId"`
	Type      NotificationType `gorm:"size:16;not null" json:"type"`
	Message   string           `gorm:"size:512;not null" json:"message"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
