// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

// UserService handles registration and login. Sessions themselves are
// issued by the HTTP layer.
type UserService struct {
	users           UserStore
	verifier        *CredentialVerifier
	passwordManager *auth.PasswordManager
	securityLogger  *SecurityLogger
}

func NewUserService(users UserStore, verifier *CredentialVerifier, passwordManager *auth.PasswordManager, securityLogger *SecurityLogger) *UserService {
	return &UserService{
		users:           users,
		verifier:        verifier,
		passwordManager: passwordManager,
		securityLogger:  securityLogger,
	}
}

// Register creates an ordinary account. Args must carry name, email,
// password and confirm.
func (s *UserService) Register(ctx context.Context, args Args) (*models.User, error) {
	fields := make(map[string]string, 4)
	for _, key := range []string{"name", "email", "password", "confirm"} {
		v, ok := args.lookup(key)
		if !ok || v == "" {
			return nil, validationError(key, MsgMissingParam)
		}
		fields[key] = v
	}

	if err := auth.ValidateUserName(fields["name"]); err != nil {
		return nil, validationError("name", err.Error())
	}
	email := strings.ToLower(strings.TrimSpace(fields["email"]))
	if err := auth.ValidateEmail(email); err != nil {
		return nil, validationError("email", err.Error())
	}
	if fields["password"] != fields["confirm"] {
		return nil, validationError("confirm", MsgPasswordsDiffer)
	}

	hash, err := s.passwordManager.HashPassword(fields["password"])
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, validationError("password", err.Error())
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:     fields["name"],
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &Error{Kind: KindConflict, Message: MsgUserExists}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.securityLogger.LogUserRegistered(ctx, user)
	return user, nil
}

// Login verifies name and password and returns the account to open a
// session for.
func (s *UserService) Login(ctx context.Context, args Args) (*models.User, error) {
	name, ok := args.lookup("name")
	if !ok {
		return nil, validationError("name", MsgMissingParam)
	}
	password, ok := args.lookup("password")
	if !ok {
		return nil, validationError("password", MsgMissingParam)
	}

	user, err := s.verifier.Verify(ctx, name, password)
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			s.securityLogger.LogLoginFailed(ctx, name, "invalid credentials")
		}
		return nil, err
	}

	s.securityLogger.LogLoginSuccess(ctx, user)
	return user, nil
}

// Logout records the end of a session.
func (s *UserService) Logout(ctx context.Context, identity *models.Identity) {
	s.securityLogger.LogLogout(ctx, identity)
}
