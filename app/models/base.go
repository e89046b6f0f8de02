package models

import "time"

// Record is implemented by every entity kept in the store.
type Record interface {
	Key() int64
	SetKey(id int64)
	Created() time.Time
	Stamp(created, updated time.Time)
}

// Base carries the identifier and timestamps shared by all entities.
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (b *Base) Key() int64 { return b.ID }

func (b *Base) SetKey(id int64) { b.ID = id }

func (b *Base) Created() time.Time { return b.CreatedAt }

func (b *Base) Stamp(created, updated time.Time) {
	b.CreatedAt = created
	b.UpdatedAt = updated
}
