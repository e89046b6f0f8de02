package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/smugflex-sys/Final-sub000/app/models"
)

const issuer = "school-dashboard"

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NewRefreshToken returns an opaque token that expires after ttl.
func NewRefreshToken(userID int64, now time.Time, ttl time.Duration) *models.RefreshToken {
	return &models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
	}
}

type JWTClaims struct {
	UserID    int64       `json:"user_id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
	jwt.RegisteredClaims
}

// User rebuilds the authenticated user from the token claims.
func (c *JWTClaims) User() *models.User {
	u := &models.User{
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
		IsActive:  true,
	}
	u.ID = c.UserID
	return u
}

func GenerateJWT(secret string, user *models.User, now time.Time, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateJWT(secret, tokenString string, now func() time.Time) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.Wrap(jwt.ErrTokenInvalidClaims, "unexpected claims")
}
