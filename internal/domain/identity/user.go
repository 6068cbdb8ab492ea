package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/ticketflow/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

// User represents an account that owns credentials and drives the
// document-to-tickets pipeline. It is the aggregate root for identity.
type User struct {
	shared.BaseEntity
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
	Status       UserStatus
	LastLoginAt  *time.Time
}

// NewUser creates a new active user with a hashed password
func NewUser(username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Username must be 3-64 characters of letters, digits, '_', '.' or '-'")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
		}
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
		Status:       UserStatusActive,
	}, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsActive reports whether the user may authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// RecordLogin stores the time of a successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}
