package models

import (
	"time"
)

// Notification types
const (
	NotificationPickDelivered = "pick_delivered"
)

// Notification is a user-visible message created when a request is fulfilled.
// The log is append-only; only the read flag is ever mutated.
type Notification struct {
	ID        string             `gorm:"primaryKey;size:64" json:"id"` // NOTIF_...
	UserID    uint               `gorm:"not null;index" json:"user_id"`
	Username  string             `gorm:"size:100" json:"username"`
	Type      string             `gorm:"size:30;not null" json:"type"`
	Title     string             `gorm:"size:200;not null" json:"title"`
	Message   string             `gorm:"type:text" json:"message"`
	Picks     RecommendationList `gorm:"type:jsonb" json:"picks,omitempty"`
	NumPicks  int                `gorm:"default:0" json:"num_picks"`
	Read      bool               `gorm:"default:false" json:"read"`
	CreatedAt time.Time          `json:"timestamp"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
