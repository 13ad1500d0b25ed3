package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// User domain event types
const (
	EventTypeVerificationCodeIssued = "VerificationCodeIssued"
)

// VerificationCodeIssuedEvent is published when a new email verification code is generated.
// It is consumed in-process by the mailer and never forwarded to external brokers.
type VerificationCodeIssuedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewVerificationCodeIssuedEvent creates a new VerificationCodeIssuedEvent
func NewVerificationCodeIssuedEvent(user *User) *VerificationCodeIssuedEvent {
	var expiresAt time.Time
	if user.VerificationExpiresAt != nil {
		expiresAt = *user.VerificationExpiresAt
	}
	return &VerificationCodeIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVerificationCodeIssued, AggregateTypeUser, user.ID),
		Email:           user.Email,
		FirstName:       user.FirstName,
		Code:            user.VerificationCode,
		ExpiresAt:       expiresAt,
	}
}
