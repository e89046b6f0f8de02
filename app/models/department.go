package models

type Department struct {
	Base
	Name        string `json:"name" db:"name" validate:"required"`
	Code        string `json:"code" db:"code" validate:"required"`
	Description string `json:"description" db:"description"`
	Status      Status `json:"status" db:"status" validate:"required,enum"`
}
