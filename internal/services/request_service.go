package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"sharppicks/internal/models"
)

var (
	// ErrRequestNotFound means no request exists with the given id
	ErrRequestNotFound = errors.New("pick request not found")
	// ErrInvalidState means the request already reached a terminal state
	ErrInvalidState = errors.New("pick request already resolved")
)

// reasoningGenerator is the slice of the predictor that fulfillment needs
type reasoningGenerator interface {
	GenerateReasoning(ctx context.Context, rec models.Recommendation, sport string) (string, error)
}

// RequestService owns the pick request lifecycle: submission with quota
// enforcement, then fulfillment or rejection by an admin. Terminal states are
// final; transition updates are guarded on the pending status so concurrent
// admins cannot resolve the same request twice.
type RequestService struct {
	db            *gorm.DB
	quota         *QuotaService
	notifications *NotificationService
	reasoning     reasoningGenerator
}

// NewRequestService creates the request lifecycle service
func NewRequestService(db *gorm.DB, quota *QuotaService, notifications *NotificationService, reasoning reasoningGenerator) *RequestService {
	return &RequestService{
		db:            db,
		quota:         quota,
		notifications: notifications,
		reasoning:     reasoning,
	}
}

// SubmitInput carries a new request's fields
type SubmitInput struct {
	RequestType string
	Sport       string
	NumPicks    int
	Preferences models.JSONB
}

// Submit records a new pick request after consuming the user's daily
// allowance, and raises an operator alert
func (s *RequestService) Submit(user *models.User, input SubmitInput) (*models.PickRequest, error) {
	if input.RequestType == "" {
		input.RequestType = models.RequestKindSingle
	}
	if input.Sport == "" {
		input.Sport = "nfl"
	}
	if input.NumPicks <= 0 {
		input.NumPicks = 1
	}

	if err := s.quota.CheckAndConsume(user.ID, input.RequestType); err != nil {
		return nil, err
	}

	request := models.PickRequest{
		ID:          newID("REQ"),
		UserID:      user.ID,
		Username:    user.Username,
		Membership:  user.Membership,
		RequestType: input.RequestType,
		Sport:       strings.ToLower(input.Sport),
		NumPicks:    input.NumPicks,
		Preferences: input.Preferences,
		Status:      models.RequestStatusPending,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create pick request: %w", err)
	}

	log.Printf("New pick request from %s (%s)", request.Username, request.Membership)

	if err := s.notifications.CreateAlert(
		models.AlertPickRequest,
		fmt.Sprintf("New %s Request", titleCase(request.RequestType)),
		fmt.Sprintf("%s (%s) requested %s for %s", request.Username, request.Membership, request.RequestType, strings.ToUpper(request.Sport)),
		&request.UserID, request.Username, request.ID,
	); err != nil {
		log.Printf("Failed to create request alert: %v", err)
	}

	return &request, nil
}

// ListByStatus returns requests in a given status, newest first. An empty
// status returns everything.
func (s *RequestService) ListByStatus(status string) ([]models.PickRequest, error) {
	query := s.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.PickRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list pick requests: %w", err)
	}
	return requests, nil
}

// Fulfill delivers picks for a pending request. Each pick optionally gets
// generated reasoning; a reasoning failure never blocks delivery, the pick
// ships with a placeholder instead.
func (s *RequestService) Fulfill(ctx context.Context, requestID string, adminID uint, picks []models.Recommendation, includeReasoning bool) (*models.PickRequest, error) {
	var request models.PickRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load pick request: %w", err)
	}

	if includeReasoning {
		for i := range picks {
			reasoning, err := s.reasoning.GenerateReasoning(ctx, picks[i], request.Sport)
			if err != nil {
				log.Printf("Could not generate reasoning for pick %d: %v", i+1, err)
				picks[i].Reasoning = "Analysis unavailable"
				continue
			}
			picks[i].Reasoning = reasoning
		}
	}

	now := time.Now()
	result := s.db.Model(&models.PickRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusFulfilled,
			"fulfilled_by": adminID,
			"fulfilled_at": now,
			"picks_sent":   models.RecommendationList(picks),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fulfill pick request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	request.Status = models.RequestStatusFulfilled
	request.FulfilledBy = &adminID
	request.FulfilledAt = &now
	request.PicksSent = picks

	if err := s.notifications.NotifyPicksDelivered(&request, picks); err != nil {
		log.Printf("Failed to create delivery notification: %v", err)
	}

	numPicks := len(picks)
	plural := ""
	if numPicks > 1 {
		plural = "s"
	}
	if err := s.notifications.CreateAlert(
		models.AlertPickFulfilled,
		fmt.Sprintf("%d Pick%s Delivered", numPicks, plural),
		fmt.Sprintf("%d pick%s sent to %s (%s) - %s for %s",
			numPicks, plural, request.Username, request.Membership, request.RequestType, strings.ToUpper(request.Sport)),
		&request.UserID, request.Username, request.ID,
	); err != nil {
		log.Printf("Failed to create fulfillment alert: %v", err)
	}

	log.Printf("Request %s fulfilled, %d pick%s sent", requestID, numPicks, plural)
	return &request, nil
}

// Reject marks a pending request rejected
func (s *RequestService) Reject(requestID string, adminID uint) (*models.PickRequest, error) {
	var request models.PickRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load pick request: %w", err)
	}

	result := s.db.Model(&models.PickRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":       models.RequestStatusRejected,
			"fulfilled_by": adminID,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to reject pick request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	request.Status = models.RequestStatusRejected
	request.FulfilledBy = &adminID
	return &request, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
