package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores accounts. Emails are looked up in their
// normalized form; see NormalizeEmail.
type UserRepository interface {
	// Create fails with ErrEmailAlreadyRegistered when the email is taken
	Create(ctx context.Context, user *User) error
	// Update writes profile, password and verification state
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
