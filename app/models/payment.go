package models

import "time"

// Payment represents a fee payment made for a student in a term.
type Payment struct {
	Base
	StudentID  int64         `json:"student_id" db:"student_id" validate:"required"`
	Amount     float64       `json:"amount" db:"amount" validate:"gt=0"`
	Method     PaymentMethod `json:"method" db:"method" validate:"required,enum"`
	Term       Term          `json:"term" db:"term" validate:"required,enum"`
	Session    string        `json:"session" db:"session" validate:"required,session"`
	Reference  string        `json:"reference" db:"reference"`
	Status     PaymentStatus `json:"status" db:"status"`
	RecordedBy int64         `json:"recorded_by" db:"recorded_by"`
	VerifiedBy *int64        `json:"verified_by" db:"verified_by"`
	VerifiedAt *time.Time    `json:"verified_at" db:"verified_at"`
	PaidAt     time.Time     `json:"paid_at" db:"paid_at"`
}

// IsVerified returns true if the payment counts towards the student's balance.
func (p *Payment) IsVerified() bool {
	return p.Status == PaymentVerified
}
