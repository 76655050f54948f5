package models

import (
	"time"
)

// User represents a registered account with daily pick allowances
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	Membership        string    `gorm:"size:20;default:free" json:"membership"`
	PicksPerDay       int       `gorm:"default:0" json:"picks_per_day"` // 0 = unlimited
	ParlayLimitPerDay int       `gorm:"default:1" json:"parlay_limit_per_day"`
	PicksUsedToday    int       `gorm:"default:0" json:"picks_used_today"`
	LastPickDate      string    `gorm:"size:10" json:"last_pick_date"` // YYYY-MM-DD, reset lazily
	SessionToken      string    `json:"-"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	IsAdmin           bool      `gorm:"default:false" json:"is_admin"`
	Notes             string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
