package models

import "time"

type Notification struct {
	Base
	UserID   int64      `json:"user_id" db:"user_id"`
	Title    string     `json:"title" db:"title" validate:"required"`
	Message  string     `json:"message" db:"message" validate:"required"`
	Type     string     `json:"type" db:"type"`
	Audience Audience   `json:"audience" db:"audience"`
	SentBy   int64      `json:"sent_by" db:"sent_by"`
	IsRead   bool       `json:"is_read" db:"is_read"`
	ReadAt   *time.Time `json:"read_at" db:"read_at"`
}
