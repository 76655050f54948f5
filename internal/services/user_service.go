package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"sharppicks/internal/models"
)

// ErrUserNotFound means no user exists with the given id
var ErrUserNotFound = errors.New("user not found")

// Membership tiers and their default single-pick allowances. Zero is
// unlimited.
var membershipPickLimits = map[string]int{
	"free":    1,
	"basic":   3,
	"premium": 10,
	"vip":     0,
}

// UserService covers the admin-facing user management operations
type UserService struct {
	db *gorm.DB
}

// NewUserService creates the user management service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create adds an account on behalf of an admin. A zero picksPerDay falls
// back to the tier default.
func (s *UserService) Create(username, email, password, membership string, picksPerDay int) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	membership = strings.ToLower(strings.TrimSpace(membership))
	if membership == "" {
		membership = "free"
	}

	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	if picksPerDay <= 0 {
		if tierDefault, ok := membershipPickLimits[membership]; ok {
			picksPerDay = tierDefault
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Membership:        membership,
		PicksPerDay:       picksPerDay,
		ParlayLimitPerDay: 1,
		SessionToken:      generateSessionToken(),
		IsActive:          true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// List returns all users, newest first
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get loads one user by id
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateMembership changes a user's tier and daily pick allowance. A zero
// picksPerDay falls back to the tier default.
func (s *UserService) UpdateMembership(id uint, membership string, picksPerDay int) (*models.User, error) {
	membership = strings.ToLower(strings.TrimSpace(membership))
	if picksPerDay < 0 {
		picksPerDay = 0
	}
	if picksPerDay == 0 {
		if tierDefault, ok := membershipPickLimits[membership]; ok {
			picksPerDay = tierDefault
		}
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"membership":    membership,
		"picks_per_day": picksPerDay,
	})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return s.Get(id)
}

// UpdateParlayLimit changes a user's per-day parlay allowance
func (s *UserService) UpdateParlayLimit(id uint, limit int) (*models.User, error) {
	if limit < 1 {
		limit = 1
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("parlay_limit_per_day", limit)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update parlay limit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return s.Get(id)
}

// SetActive enables or disables a user account
func (s *UserService) SetActive(id uint, active bool) (*models.User, error) {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.Get(id)
}

// ResetLimits zeroes a user's daily usage. Because parlay usage is derived
// from the request log, today's parlay requests are deleted as part of the
// reset.
func (s *UserService) ResetLimits(id uint) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"picks_used_today": 0,
		"last_pick_date":   "",
	})
	if result.Error != nil {
		return fmt.Errorf("failed to reset limits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Where("user_id = ? AND request_type = ? AND created_at >= ?", id, models.RequestKindParlay, midnight).
		Delete(&models.PickRequest{}).Error; err != nil {
		return fmt.Errorf("failed to clear today's parlay requests: %w", err)
	}

	return nil
}

// Delete removes a user account
func (s *UserService) Delete(id uint) error {
	result := s.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
