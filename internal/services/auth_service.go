package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"sharppicks/internal/auth"
	"sharppicks/internal/models"
)

var (
	// ErrInvalidCredentials covers unknown identifier and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled means the account exists but was deactivated
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrUserExists means the username or email is already taken
	ErrUserExists = errors.New("username or email already registered")
)

// AuthService handles registration and login
type AuthService struct {
	db                 *gorm.DB
	defaultParlayLimit int
}

// NewAuthService creates the auth service. New accounts get the given daily
// parlay allowance.
func NewAuthService(db *gorm.DB, defaultParlayLimit int) *AuthService {
	if defaultParlayLimit < 1 {
		defaultParlayLimit = 1
	}
	return &AuthService{db: db, defaultParlayLimit: defaultParlayLimit}
}

// Register creates a new account and returns it with a signed token
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" {
		return nil, "", fmt.Errorf("username and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, "", ErrUserExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		Membership:        "free",
		ParlayLimitPerDay: s.defaultParlayLimit,
		SessionToken:      generateSessionToken(),
		IsActive:          true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Logout invalidates the user's session token. JWTs stay valid until expiry;
// this only severs session-token lookups.
func (s *AuthService) Logout(userID uint) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("session_token", "").Error; err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// Login authenticates by email or username and returns the user with a
// signed token
func (s *AuthService) Login(identifier, password string) (*models.User, string, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := s.db.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !verifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrAccountDisabled
	}

	user.SessionToken = generateSessionToken()
	if err := s.db.Model(&user).Update("session_token", user.SessionToken).Error; err != nil {
		return nil, "", fmt.Errorf("failed to update session: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// hashPassword produces a salted SHA-256 digest stored as "salt:hash"
func hashPassword(password string) (string, error) {
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	digest := sha256.Sum256([]byte(password + salt))
	return salt + ":" + hex.EncodeToString(digest[:]), nil
}

// verifyPassword checks a password against a stored "salt:hash" digest
func verifyPassword(password, stored string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}

	digest := sha256.Sum256([]byte(password + parts[0]))
	return hex.EncodeToString(digest[:]) == parts[1]
}

// generateSessionToken returns an opaque URL-safe token
func generateSessionToken() string {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes)
}
