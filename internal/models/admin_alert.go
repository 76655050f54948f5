package models

import (
	"time"
)

// Admin alert types
const (
	AlertPickRequest   = "pick_request"
	AlertPickFulfilled = "pick_fulfilled"
)

// AdminAlert is an operator-visible event record. Alerts are append-only;
// only the read flag is mutated, and the collection supports a full clear.
type AdminAlert struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"` // ALERT_...
	Type      string    `gorm:"size:30;not null;index" json:"type"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Username  string    `gorm:"size:100" json:"username,omitempty"`
	RequestID string    `gorm:"size:64;index" json:"request_id,omitempty"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"timestamp"`
}

// TableName specifies the table name for AdminAlert model
func (AdminAlert) TableName() string {
	return "admin_alerts"
}
