package models

// Attendance represents a student's attendance for a school day.
type Attendance struct {
	Base
	StudentID int64            `json:"student_id" db:"student_id" validate:"required"`
	ClassID   int64            `json:"class_id" db:"class_id" validate:"required"`
	Date      Date             `json:"date" db:"date"`
	Term      Term             `json:"term" db:"term" validate:"required,enum"`
	Session   string           `json:"session" db:"session" validate:"required,session"`
	Status    AttendanceStatus `json:"status" db:"status" validate:"required,enum"`
	MarkedBy  int64            `json:"marked_by" db:"marked_by"`
}
