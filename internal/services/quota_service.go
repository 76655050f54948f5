package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"sharppicks/internal/models"
)

// timeNow is swapped by tests that exercise day rollover
var timeNow = time.Now

// QuotaError reports a daily allowance denial with the figures the caller
// needs to render the refusal
type QuotaError struct {
	Kind  string
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily %s limit reached (%d of %d used)", e.Kind, e.Used, e.Limit)
}

// QuotaService enforces per-user daily pick allowances. Single picks consume
// a counter on the user row; parlay usage is derived from the request log so
// it needs no counter of its own.
type QuotaService struct {
	db *gorm.DB
}

// NewQuotaService creates the quota enforcement service
func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{db: db}
}

// CheckAndConsume verifies the user may submit a request of the given kind
// today and, for single picks, consumes one unit of allowance. Returns a
// QuotaError on denial.
func (s *QuotaService) CheckAndConsume(userID uint, kind string) error {
	now := timeNow()
	today := now.Format("2006-01-02")

	// Lazy rollover: the first request on a new day resets the counter
	if err := s.db.Model(&models.User{}).
		Where("id = ? AND (last_pick_date IS NULL OR last_pick_date <> ?)", userID, today).
		Updates(map[string]interface{}{
			"picks_used_today": 0,
			"last_pick_date":   today,
		}).Error; err != nil {
		return fmt.Errorf("failed to roll over daily counter: %w", err)
	}

	switch kind {
	case models.RequestKindParlay:
		return s.checkParlay(userID, now)
	default:
		return s.consumeSingle(userID)
	}
}

// consumeSingle increments the user's counter only while under the limit.
// The guard lives in the UPDATE itself so two concurrent requests cannot both
// take the last slot.
func (s *QuotaService) consumeSingle(userID uint) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND (picks_per_day = 0 OR picks_used_today < picks_per_day)", userID).
		UpdateColumn("picks_used_today", gorm.Expr("picks_used_today + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to consume pick allowance: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var user models.User
		if err := s.db.First(&user, userID).Error; err != nil {
			return fmt.Errorf("user %d not found: %w", userID, err)
		}
		return &QuotaError{Kind: models.RequestKindSingle, Limit: user.PicksPerDay, Used: user.PicksUsedToday}
	}

	return nil
}

// checkParlay counts the user's parlay requests since local midnight against
// their per-day parlay limit
func (s *QuotaService) checkParlay(userID uint, now time.Time) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user %d not found: %w", userID, err)
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	if err := s.db.Model(&models.PickRequest{}).
		Where("user_id = ? AND request_type = ? AND created_at >= ?", userID, models.RequestKindParlay, midnight).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count parlay requests: %w", err)
	}

	if int(count) >= user.ParlayLimitPerDay {
		return &QuotaError{Kind: models.RequestKindParlay, Limit: user.ParlayLimitPerDay, Used: int(count)}
	}

	return nil
}
