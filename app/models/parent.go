package models

type Parent struct {
	Base
	UserID     *int64 `json:"user_id" db:"user_id"`
	FirstName  string `json:"first_name" db:"first_name" validate:"required"`
	LastName   string `json:"last_name" db:"last_name" validate:"required"`
	Email      string `json:"email" db:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" db:"phone" validate:"required"`
	Address    string `json:"address" db:"address"`
	Occupation string `json:"occupation" db:"occupation"`
}
