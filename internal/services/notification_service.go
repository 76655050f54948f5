package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sharppicks/internal/hub"
	"sharppicks/internal/models"
)

var (
	// ErrNotificationNotFound means no notification exists with the given id
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrAlertNotFound means no admin alert exists with the given id
	ErrAlertNotFound = errors.New("admin alert not found")
)

// NotificationService writes user notifications and admin alerts. Alerts are
// also pushed to connected admin dashboards through the websocket hub.
type NotificationService struct {
	db       *gorm.DB
	alertHub *hub.Hub
}

// NewNotificationService creates the service. The hub may be nil in tests;
// broadcasting is skipped.
func NewNotificationService(db *gorm.DB, alertHub *hub.Hub) *NotificationService {
	return &NotificationService{db: db, alertHub: alertHub}
}

// NotifyPicksDelivered records a pick-delivered notification for the request's
// owner
func (s *NotificationService) NotifyPicksDelivered(req *models.PickRequest, picks []models.Recommendation) error {
	numPicks := len(picks)

	title := "Your Pick is Ready!"
	message := fmt.Sprintf("Your %s for %s has been delivered!", req.RequestType, strings.ToUpper(req.Sport))
	if numPicks > 1 {
		title = fmt.Sprintf("Your %d Picks are Ready!", numPicks)
		message = fmt.Sprintf("Your %s with %d picks for %s has been delivered!", req.RequestType, numPicks, strings.ToUpper(req.Sport))
	}

	notification := models.Notification{
		ID:        newID("NOTIF"),
		UserID:    req.UserID,
		Username:  req.Username,
		Type:      models.NotificationPickDelivered,
		Title:     title,
		Message:   message,
		Picks:     picks,
		NumPicks:  numPicks,
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListForUser returns a user's notifications, newest first, with the unread
// count
func (s *NotificationService) ListForUser(userID uint) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	var unread int64
	if err := s.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&unread).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, unread, nil
}

// MarkRead flags one notification as read. Already-read notifications are a
// no-op; an unknown id is an error.
func (s *NotificationService) MarkRead(id string) error {
	result := s.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// CreateAlert records an operator alert and pushes it to connected dashboards
func (s *NotificationService) CreateAlert(alertType, title, message string, userID *uint, username, requestID string) error {
	alert := models.AdminAlert{
		ID:        newID("ALERT"),
		Type:      alertType,
		Title:     title,
		Message:   message,
		UserID:    userID,
		Username:  username,
		RequestID: requestID,
		CreatedAt: time.Now(),
	}

	if err := s.db.Create(&alert).Error; err != nil {
		return fmt.Errorf("failed to create admin alert: %w", err)
	}

	if s.alertHub != nil {
		s.alertHub.Broadcast(alert)
	}
	return nil
}

// ListAlerts returns all admin alerts, newest first, with the unread count
func (s *NotificationService) ListAlerts() ([]models.AdminAlert, int64, error) {
	var alerts []models.AdminAlert
	if err := s.db.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}

	var unread int64
	if err := s.db.Model(&models.AdminAlert{}).Where("read = ?", false).Count(&unread).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}

	return alerts, unread, nil
}

// MarkAlertRead flags one alert as read. An unknown id is an error.
func (s *NotificationService) MarkAlertRead(id string) error {
	result := s.db.Model(&models.AdminAlert{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// ClearAlerts deletes all admin alerts
func (s *NotificationService) ClearAlerts() error {
	return s.db.Where("1 = 1").Delete(&models.AdminAlert{}).Error
}

// newID builds a prefixed identifier with a timestamp component so records
// sort roughly chronologically even outside the database
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), strings.Split(uuid.New().String(), "-")[0])
}
