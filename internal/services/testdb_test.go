package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sharppicks/internal/auth"
	"sharppicks/internal/models"
)

// NewAuthServiceForTest wires an auth service with a throwaway signing key
func NewAuthServiceForTest(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	auth.InitJWT("test-signing-key")
	return NewAuthService(db, 1)
}

// testDB opens an isolated in-memory database with the full schema
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.PickRequest{},
		&models.Notification{},
		&models.AdminAlert{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user with the given daily allowances
func createTestUser(t *testing.T, db *gorm.DB, username string, picksPerDay, parlayLimit int) *models.User {
	t.Helper()

	user := models.User{
		Username:          username,
		Email:             username + "@example.com",
		PasswordHash:      "salt:hash",
		Membership:        "free",
		PicksPerDay:       picksPerDay,
		ParlayLimitPerDay: parlayLimit,
		IsActive:          true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}
