package models

import (
	"time"
)

// PickRequest status values. Transitions are one-way: pending is the only
// non-terminal state.
const (
	RequestStatusPending   = "pending"
	RequestStatusFulfilled = "fulfilled"
	RequestStatusRejected  = "rejected"
)

// Request kinds
const (
	RequestKindSingle = "single"
	RequestKindParlay = "parlay"
)

// PickRequest represents a user's ask for a recommendation, from submission
// through delivery or rejection
type PickRequest struct {
	ID          string             `gorm:"primaryKey;size:64" json:"id"` // REQ_...
	UserID      uint               `gorm:"not null;index:idx_user_kind_day,priority:1" json:"user_id"`
	Username    string             `gorm:"size:100" json:"username"`
	Membership  string             `gorm:"size:20;default:free" json:"membership"`
	RequestType string             `gorm:"size:20;not null;index:idx_user_kind_day,priority:2" json:"request_type"` // single, parlay
	Sport       string             `gorm:"size:20;not null" json:"sport"`
	NumPicks    int                `gorm:"default:1" json:"num_picks"`
	Preferences JSONB              `gorm:"type:jsonb" json:"preferences,omitempty"`
	Status      string             `gorm:"size:20;default:pending;index" json:"status"`
	FulfilledBy *uint              `json:"fulfilled_by,omitempty"`
	FulfilledAt *time.Time         `json:"fulfilled_at,omitempty"`
	PicksSent   RecommendationList `gorm:"type:jsonb" json:"picks_sent,omitempty"`
	CreatedAt   time.Time          `gorm:"index:idx_user_kind_day,priority:3" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TableName specifies the table name for PickRequest model
func (PickRequest) TableName() string {
	return "pick_requests"
}

// Terminal reports whether the request has reached a final state
func (r *PickRequest) Terminal() bool {
	return r.Status != RequestStatusPending
}
