package models

type Class struct {
	Base
	Name          string `json:"name" db:"name" validate:"required"`
	Level         string `json:"level" db:"level" validate:"required"`
	FormTeacherID *int64 `json:"form_teacher_id" db:"form_teacher_id"`
	Capacity      int    `json:"capacity" db:"capacity" validate:"gte=0"`
	Status        Status `json:"status" db:"status" validate:"required,enum"`
}
