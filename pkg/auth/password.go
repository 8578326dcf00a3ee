// pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// PasswordManager handles password hashing and validation
type PasswordManager struct {
	cost           int
	minLength      int
	requireUpper   bool
	requireLower   bool
	requireNumber  bool
	requireSpecial bool
}

// NewPasswordManager creates a new password manager with default settings
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{
		cost:      12,
		minLength: 6,
	}
}

// PasswordPolicy lists the rules a new password must satisfy beyond bcrypt's
// own 72-byte limit.
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// WithPolicy returns a copy of pm enforcing policy. A non-positive
// MinLength keeps the current minimum.
func (pm *PasswordManager) WithPolicy(policy PasswordPolicy) *PasswordManager {
	cp := *pm
	if policy.MinLength > 0 {
		cp.minLength = policy.MinLength
	}
	cp.requireUpper = policy.RequireUpper
	cp.requireLower = policy.RequireLower
	cp.requireNumber = policy.RequireNumber
	cp.requireSpecial = policy.RequireSpecial
	return &cp
}

// WithCost returns a copy of pm hashing with the given bcrypt cost.
func (pm *PasswordManager) WithCost(cost int) *PasswordManager {
	cp := *pm
	cp.cost = cost
	return &cp
}

// HashPassword hashes a password using bcrypt
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	// Validate password strength
	if err := pm.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a password with a hash
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword checks if a password meets the requirements
func (pm *PasswordManager) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < pm.minLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.minLength)
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: maximum length is 72 bytes", ErrWeakPassword)
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if pm.requireUpper && !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	}
	if pm.requireLower && !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	}
	if pm.requireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	}
	if pm.requireSpecial && !hasSpecial {
		return fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	}

	return nil
}

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	userNameRegex = regexp.MustCompile(`^[\p{L}\p{N}_\-]+$`)
)

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	if len(email) > 255 {
		return errors.New("email address too long")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidateUserName validates a user name. Letters from any script are
// accepted.
func ValidateUserName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 {
		return errors.New("user name must be at least 3 characters")
	}

	if n > 25 {
		return errors.New("user name must not exceed 25 characters")
	}

	if !userNameRegex.MatchString(name) {
		return errors.New("user name can only contain letters, numbers, underscore, and hyphen")
	}

	return nil
}
