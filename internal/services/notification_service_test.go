package services

import (
	"errors"
	"testing"

	"sharppicks/internal/models"
)

func TestMarkReadUnknownNotification(t *testing.T) {
	db := testDB(t)
	svc := NewNotificationService(db, nil)

	if err := svc.MarkRead("NOTIF_does_not_exist"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkAlertRead("ALERT_does_not_exist"); !errors.Is(err, ErrAlertNotFound) {
		t.Errorf("expected ErrAlertNotFound, got %v", err)
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "reader", 0, 1)
	svc := NewNotificationService(db, nil)

	request := &models.PickRequest{
		ID:          newID("REQ"),
		UserID:      user.ID,
		Username:    user.Username,
		RequestType: models.RequestKindSingle,
		Sport:       "nfl",
	}
	picks := []models.Recommendation{{Pick: "Packers ML"}}
	if err := svc.NotifyPicksDelivered(request, picks); err != nil {
		t.Fatalf("NotifyPicksDelivered failed: %v", err)
	}

	notifications, unread, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 1 || unread != 1 {
		t.Fatalf("expected 1 unread notification, got %d/%d", len(notifications), unread)
	}

	if err := svc.MarkRead(notifications[0].ID); err != nil {
		t.Fatalf("first MarkRead failed: %v", err)
	}
	if err := svc.MarkRead(notifications[0].ID); err != nil {
		t.Errorf("re-marking a read notification should succeed: %v", err)
	}

	if _, unread, err = svc.ListForUser(user.ID); err != nil || unread != 0 {
		t.Errorf("expected 0 unread after MarkRead, got %d (err %v)", unread, err)
	}
}
