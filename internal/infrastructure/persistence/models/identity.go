package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	FirstName             string `gorm:"type:varchar(100);not null"`
	LastName              string `gorm:"type:varchar(100);not null"`
	Email                 string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash          string `gorm:"type:varchar(255);not null"`
	EmailVerified         bool   `gorm:"not null;default:false"`
	VerificationCode      string `gorm:"type:varchar(6)"`
	VerificationExpiresAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot:     shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		FirstName:             m.FirstName,
		LastName:              m.LastName,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		EmailVerified:         m.EmailVerified,
		VerificationCode:      m.VerificationCode,
		VerificationExpiresAt: m.VerificationExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.EmailVerified = u.EmailVerified
	m.VerificationCode = u.VerificationCode
	m.VerificationExpiresAt = u.VerificationExpiresAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
