package models

import "time"

type User struct {
	Base
	Email     string `json:"email" db:"email" validate:"required,email"`
	Password  string `json:"-" db:"password"`
	FirstName string `json:"first_name" db:"first_name" validate:"required"`
	LastName  string `json:"last_name" db:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty" db:"phone"`
	Role      Role   `json:"role" db:"role" validate:"required,enum"`
	IsActive  bool   `json:"is_active" db:"is_active"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RefreshToken lets a client obtain new access tokens without logging in again.
type RefreshToken struct {
	Base
	Token     string    `json:"token" db:"token"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// Usable reports whether the token can still be exchanged at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
