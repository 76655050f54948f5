package services

import (
	"context"
	"errors"
	"testing"

	"sharppicks/internal/models"
)

// stubReasoner returns canned reasoning or a fixed error
type stubReasoner struct {
	reasoning string
	err       error
}

func (s *stubReasoner) GenerateReasoning(_ context.Context, _ models.Recommendation, _ string) (string, error) {
	return s.reasoning, s.err
}

func TestSubmitCreatesPendingRequestAndAlert(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "requester", 0, 1)
	notifications := NewNotificationService(db, nil)
	svc := NewRequestService(db, NewQuotaService(db), notifications, &stubReasoner{reasoning: "ok"})

	request, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle, Sport: "NFL"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if request.Status != models.RequestStatusPending {
		t.Errorf("expected pending status, got %q", request.Status)
	}
	if request.Sport != "nfl" {
		t.Errorf("expected lowercased sport, got %q", request.Sport)
	}
	if request.ID == "" || request.ID[:4] != "REQ_" {
		t.Errorf("unexpected request id %q", request.ID)
	}

	alerts, unread, err := notifications.ListAlerts()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || unread != 1 {
		t.Fatalf("expected one unread alert, got %d (%d unread)", len(alerts), unread)
	}
	if alerts[0].Type != models.AlertPickRequest {
		t.Errorf("unexpected alert type %q", alerts[0].Type)
	}
	if alerts[0].RequestID != request.ID {
		t.Errorf("alert not linked to request: %q", alerts[0].RequestID)
	}
}

func TestSubmitDeniedOverQuota(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "capped", 1, 1)
	svc := NewRequestService(db, NewQuotaService(db), NewNotificationService(db, nil), &stubReasoner{})

	if _, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle}); err != nil {
		t.Fatalf("first submit should pass: %v", err)
	}

	_, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle})
	var quotaErr *QuotaError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaError, got %v", err)
	}

	// The denied submission must not leave a request behind
	var count int64
	db.Model(&models.PickRequest{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 stored request, got %d", count)
	}
}

func TestFulfillDeliversPicksAndNotifies(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "lucky", 0, 1)
	notifications := NewNotificationService(db, nil)
	svc := NewRequestService(db, NewQuotaService(db), notifications, &stubReasoner{reasoning: "Sharp analysis here."})

	request, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle, Sport: "nba"})
	if err != nil {
		t.Fatal(err)
	}

	picks := []models.Recommendation{{BestEVPick: "Lakers vs Celtics", Pick: "Celtics -4.5", Confidence: 82}}
	fulfilled, err := svc.Fulfill(context.Background(), request.ID, 99, picks, true)
	if err != nil {
		t.Fatalf("Fulfill failed: %v", err)
	}

	if fulfilled.Status != models.RequestStatusFulfilled {
		t.Errorf("expected fulfilled status, got %q", fulfilled.Status)
	}
	if fulfilled.FulfilledAt == nil {
		t.Error("expected fulfillment timestamp")
	}
	if len(fulfilled.PicksSent) != 1 || fulfilled.PicksSent[0].Reasoning != "Sharp analysis here." {
		t.Errorf("unexpected delivered picks: %+v", fulfilled.PicksSent)
	}

	userNotifications, unread, err := notifications.ListForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(userNotifications) != 1 || unread != 1 {
		t.Fatalf("expected one unread notification, got %d (%d unread)", len(userNotifications), unread)
	}
	if userNotifications[0].Title != "Your Pick is Ready!" {
		t.Errorf("unexpected title %q", userNotifications[0].Title)
	}
	if userNotifications[0].NumPicks != 1 {
		t.Errorf("expected 1 pick in notification, got %d", userNotifications[0].NumPicks)
	}
}

func TestFulfillReasoningFailureUsesPlaceholder(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "patient", 0, 1)
	svc := NewRequestService(db, NewQuotaService(db), NewNotificationService(db, nil),
		&stubReasoner{err: errors.New("completion unavailable")})

	request, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle})
	if err != nil {
		t.Fatal(err)
	}

	picks := []models.Recommendation{{BestEVPick: "Bears at Packers", Pick: "Packers ML"}}
	fulfilled, err := svc.Fulfill(context.Background(), request.ID, 99, picks, true)
	if err != nil {
		t.Fatalf("delivery must not fail on reasoning errors: %v", err)
	}
	if fulfilled.PicksSent[0].Reasoning != "Analysis unavailable" {
		t.Errorf("expected placeholder reasoning, got %q", fulfilled.PicksSent[0].Reasoning)
	}
}

func TestFulfillTerminalRequestRejected(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "twice", 0, 1)
	svc := NewRequestService(db, NewQuotaService(db), NewNotificationService(db, nil), &stubReasoner{reasoning: "ok"})

	request, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle})
	if err != nil {
		t.Fatal(err)
	}

	picks := []models.Recommendation{{Pick: "Home ML"}}
	if _, err := svc.Fulfill(context.Background(), request.ID, 1, picks, false); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Fulfill(context.Background(), request.ID, 2, picks, false); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second fulfill should hit ErrInvalidState, got %v", err)
	}
	if _, err := svc.Reject(request.ID, 2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("reject after fulfill should hit ErrInvalidState, got %v", err)
	}
}

func TestRejectThenFulfillRejected(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "rejected", 0, 1)
	svc := NewRequestService(db, NewQuotaService(db), NewNotificationService(db, nil), &stubReasoner{})

	request, err := svc.Submit(user, SubmitInput{RequestType: models.RequestKindSingle})
	if err != nil {
		t.Fatal(err)
	}

	rejected, err := svc.Reject(request.ID, 7)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != models.RequestStatusRejected {
		t.Errorf("expected rejected status, got %q", rejected.Status)
	}

	if _, err := svc.Fulfill(context.Background(), request.ID, 7, []models.Recommendation{{Pick: "x"}}, false); !errors.Is(err, ErrInvalidState) {
		t.Errorf("fulfill after reject should hit ErrInvalidState, got %v", err)
	}
}

func TestFulfillUnknownRequest(t *testing.T) {
	db := testDB(t)
	svc := NewRequestService(db, NewQuotaService(db), NewNotificationService(db, nil), &stubReasoner{})

	if _, err := svc.Fulfill(context.Background(), "REQ_missing", 1, nil, false); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}
