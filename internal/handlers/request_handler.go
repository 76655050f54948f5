package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sharppicks/internal/auth"
	"sharppicks/internal/models"
	"sharppicks/internal/services"
)

// RequestHandler handles the pick request lifecycle endpoints
type RequestHandler struct {
	requests *services.RequestService
	users    *services.UserService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requests *services.RequestService, users *services.UserService) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		users:    users,
	}
}

type submitRequestBody struct {
	RequestType string       `json:"request_type"`
	Sport       string       `json:"sport"`
	NumPicks    int          `json:"num_picks"`
	Preferences models.JSONB `json:"preferences"`
}

// Submit records a new pick request for the authenticated user
func (h *RequestHandler) Submit(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.Get(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	request, err := h.requests.Submit(user, services.SubmitInput{
		RequestType: body.RequestType,
		Sport:       body.Sport,
		NumPicks:    body.NumPicks,
		Preferences: body.Preferences,
	})
	if err != nil {
		var quotaErr *services.QuotaError
		if errors.As(err, &quotaErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":       false,
				"error":         "Daily " + quotaErr.Kind + " limit reached",
				"limit_reached": true,
				"current_limit": quotaErr.Limit,
				"used_today":    quotaErr.Used,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pick request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"request_id":     request.ID,
		"message":        "Your request has been received! Our team will send you a pick shortly.",
		"estimated_wait": "5-15 minutes",
	})
}

// List returns requests filtered by status (admin)
func (h *RequestHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", models.RequestStatusPending)
	if status == "all" {
		status = ""
	}

	requests, err := h.requests.ListByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

type fulfillRequestBody struct {
	Picks            []models.Recommendation `json:"picks"`
	Pick             *models.Recommendation  `json:"pick"`
	IncludeReasoning *bool                   `json:"include_reasoning"`
}

// Fulfill delivers picks for a pending request (admin)
func (h *RequestHandler) Fulfill(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	requestID := c.Param("id")

	var body fulfillRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	picks := body.Picks
	if len(picks) == 0 && body.Pick != nil {
		picks = []models.Recommendation{*body.Pick}
	}
	if len(picks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one pick is required"})
		return
	}

	includeReasoning := true
	if body.IncludeReasoning != nil {
		includeReasoning = *body.IncludeReasoning
	}

	request, err := h.requests.Fulfill(c.Request.Context(), requestID, adminID, picks, includeReasoning)
	if err != nil {
		writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Picks delivered to user",
		"num_picks": len(request.PicksSent),
		"request":   request,
	})
}

// Reject marks a pending request rejected (admin)
func (h *RequestHandler) Reject(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	requestID := c.Param("id")

	request, err := h.requests.Reject(requestID, adminID)
	if err != nil {
		writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": request,
	})
}

func writeRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Request has already been resolved"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
	}
}
