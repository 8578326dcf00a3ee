// Package seed creates the accounts a fresh store starts with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

// Account is one user entry of a seed file.
type Account struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// File is the layout of a seed file:
//
//	users:
//	  - name: administrateur
//	    email: admin@example.com
//	    password: change-me
//	    role: admin
type File struct {
	Users []Account `yaml:"users"`
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, a := range f.Users {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("seed file %s: user %d: %w", path, i, err)
		}
	}
	return &f, nil
}

func (a Account) validate() error {
	if a.Name == "" || a.Email == "" || a.Password == "" {
		return errors.New("name, email and password are required")
	}
	switch a.Role {
	case "", models.RoleUser, models.RoleAdmin:
		return nil
	default:
		return fmt.Errorf("unknown role %q", a.Role)
	}
}

// Seeder inserts accounts, skipping names or emails already taken.
type Seeder struct {
	users     *repository.UserRepository
	passwords *auth.PasswordManager
}

func NewSeeder(users *repository.UserRepository, passwords *auth.PasswordManager) *Seeder {
	return &Seeder{users: users, passwords: passwords}
}

// Accounts creates every account and returns how many were new.
func (s *Seeder) Accounts(ctx context.Context, accounts []Account) (int, error) {
	created := 0
	for _, a := range accounts {
		if err := a.validate(); err != nil {
			return created, fmt.Errorf("account %q: %w", a.Name, err)
		}

		hash, err := s.passwords.HashPassword(a.Password)
		if err != nil {
			return created, fmt.Errorf("hash password for %q: %w", a.Name, err)
		}

		_, err = s.users.Create(ctx, &models.User{
			Name:     a.Name,
			Email:    strings.ToLower(a.Email),
			Password: hash,
			Role:     a.Role,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			log.Printf("[INFO] seed: user %q already exists, skipping", a.Name)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create user %q: %w", a.Name, err)
		}
		log.Printf("[INFO] seed: created %s user %q", roleOf(a), a.Name)
		created++
	}
	return created, nil
}

func roleOf(a Account) string {
	if a.Role == "" {
		return models.RoleUser
	}
	return a.Role
}
