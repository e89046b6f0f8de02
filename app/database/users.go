package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

// hashPassword hashes a password using bcrypt
func hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CreateUser hashes the plain password and stores the user.
func CreateUser(ctx context.Context, s *Store, user *models.User, password string, cost int) error {
	hash, err := hashPassword(password, cost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Password = hash
	user.IsActive = true
	return s.Users.Create(ctx, user)
}

// GetUserByEmail returns the active user with the email address.
func GetUserByEmail(ctx context.Context, s *Store, email string) (models.User, error) {
	return First(ctx, s.Users, Filter{
		"email":     strings.ToLower(strings.TrimSpace(email)),
		"is_active": true,
	})
}

// EnsureAdmin creates the bootstrap administrator unless a user with that email exists.
func EnsureAdmin(ctx context.Context, s *Store, email, password string, cost int) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	n, err := s.Users.Count(ctx, Filter{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	admin := &models.User{
		Email:     email,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
	}
	if err := CreateUser(ctx, s, admin, password, cost); err != nil {
		return false, err
	}
	return true, nil
}
