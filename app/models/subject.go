package models

type Subject struct {
	Base
	Name         string `json:"name" db:"name" validate:"required"`
	Code         string `json:"code" db:"code" validate:"required"`
	DepartmentID *int64 `json:"department_id" db:"department_id"`
}

// SubjectAssignment links a subject to the class it is taught in and the teacher who teaches it.
type SubjectAssignment struct {
	Base
	SubjectID int64  `json:"subject_id" db:"subject_id" validate:"required"`
	ClassID   int64  `json:"class_id" db:"class_id" validate:"required"`
	TeacherID *int64 `json:"teacher_id" db:"teacher_id"`
	Session   string `json:"session" db:"session" validate:"required,session"`
}
