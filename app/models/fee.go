package models

// FeeStructure is an amount required from every student of a class for a term.
type FeeStructure struct {
	Base
	Name    string  `json:"name" db:"name" validate:"required"`
	ClassID int64   `json:"class_id" db:"class_id" validate:"required"`
	Term    Term    `json:"term" db:"term" validate:"required,enum"`
	Session string  `json:"session" db:"session" validate:"required,session"`
	Amount  float64 `json:"amount" db:"amount" validate:"gt=0"`
}

// Scholarship reduces the fee a student owes for a term.
type Scholarship struct {
	Base
	StudentID int64   `json:"student_id" db:"student_id" validate:"required"`
	Name      string  `json:"name" db:"name" validate:"required"`
	Term      Term    `json:"term" db:"term" validate:"required,enum"`
	Session   string  `json:"session" db:"session" validate:"required,session"`
	Amount    float64 `json:"amount" db:"amount" validate:"gt=0"`
}
