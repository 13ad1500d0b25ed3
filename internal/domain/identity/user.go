package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// AggregateTypeUser is the aggregate type name carried by user events
const AggregateTypeUser = "User"

// VerificationCodeLength is the number of digits in an email verification code
const VerificationCodeLength = 6

// Password cost for bcrypt
const bcryptCost = bcrypt.DefaultCost

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	upperRegex        = regexp.MustCompile(`[A-Z]`)
	lowerRegex        = regexp.MustCompile(`[a-z]`)
	digitRegex        = regexp.MustCompile(`[0-9]`)
	verificationRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// Identity errors
var (
	ErrInvalidCredentials      = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailNotVerified        = shared.NewDomainError("EMAIL_NOT_VERIFIED", "Email address has not been verified")
	ErrAlreadyVerified         = shared.NewDomainError("ALREADY_VERIFIED", "Email address is already verified")
	ErrInvalidVerificationCode = shared.NewDomainError("INVALID_VERIFICATION_CODE", "Verification code is incorrect")
	ErrVerificationCodeExpired = shared.NewDomainError("VERIFICATION_CODE_EXPIRED", "Verification code has expired")
	ErrEmailAlreadyRegistered  = shared.NewConflictError("Email is already registered")
)

// User is a registered customer
type User struct {
	shared.BaseAggregateRoot
	FirstName             string
	LastName              string
	Email                 string
	PasswordHash          string
	EmailVerified         bool
	VerificationCode      string
	VerificationExpiresAt *time.Time
}

// NewUser creates an unverified user with a hashed password
func NewUser(firstName, lastName, email, password string, now time.Time) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || len(firstName) > 100 {
		return nil, shared.NewDomainError("INVALID_FIRST_NAME", "First name is required and cannot exceed 100 characters")
	}
	if lastName == "" || len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_LAST_NAME", "Last name is required and cannot exceed 100 characters")
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.NewBaseEntityAt(now)},
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		PasswordHash:      passwordHash,
	}, nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IssueVerificationCode replaces any pending code with a fresh one valid for ttl
func (u *User) IssueVerificationCode(ttl time.Duration, now time.Time) error {
	if u.EmailVerified {
		return ErrAlreadyVerified
	}
	code, err := generateVerificationCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	expiresAt := now.Add(ttl)
	u.VerificationCode = code
	u.VerificationExpiresAt = &expiresAt
	u.Touch(now)

	u.AddDomainEvent(NewVerificationCodeIssuedEvent(u))
	return nil
}

// VerifyEmail checks the submitted code and marks the email as verified
func (u *User) VerifyEmail(code string, now time.Time) error {
	if u.EmailVerified {
		return ErrAlreadyVerified
	}
	if u.VerificationCode == "" ||
		subtle.ConstantTimeCompare([]byte(u.VerificationCode), []byte(strings.TrimSpace(code))) != 1 {
		return ErrInvalidVerificationCode
	}
	if u.VerificationExpiresAt == nil || now.After(*u.VerificationExpiresAt) {
		return ErrVerificationCodeExpired
	}

	u.EmailVerified = true
	u.VerificationCode = ""
	u.VerificationExpiresAt = nil
	u.Touch(now)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// CanLogin returns an error when the user may not sign in yet
func (u *User) CanLogin() error {
	if !u.EmailVerified {
		return ErrEmailNotVerified
	}
	return nil
}

// FullName returns first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ValidatePassword enforces the password policy: at least 8 characters with
// an uppercase letter, a lowercase letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}

// IsVerificationCode reports whether s has the shape of a verification code
func IsVerificationCode(s string) bool {
	return verificationRegex.MatchString(s)
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", VerificationCodeLength, n.Int64()), nil
}
