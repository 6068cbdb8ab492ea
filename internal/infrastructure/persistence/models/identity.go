package models

import (
	"time"

	"github.com/ticketflow/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username     string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string              `gorm:"type:varchar(200)"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	DisplayName  string              `gorm:"type:varchar(200)"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Status:       m.Status,
		LastLoginAt:  m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Username = u.Username
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
