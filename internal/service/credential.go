package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

// CredentialVerifier confirms a user name and plaintext password against
// the stored hash.
type CredentialVerifier struct {
	users           UserStore
	passwordManager *auth.PasswordManager
}

func NewCredentialVerifier(users UserStore, passwordManager *auth.PasswordManager) *CredentialVerifier {
	return &CredentialVerifier{
		users:           users,
		passwordManager: passwordManager,
	}
}

// Verify returns the matching user. An unknown name and a wrong password
// produce the same error so callers cannot probe for accounts.
func (v *CredentialVerifier) Verify(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := v.users.GetByName(ctx, userName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials()
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := v.passwordManager.ComparePassword(user.Password, password); err != nil {
		return nil, ErrBadCredentials()
	}

	return user, nil
}
