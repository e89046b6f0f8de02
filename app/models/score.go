package models

// Score stores a student's continuous assessment and exam marks for one subject in a term.
// Total, Grade and Remark are always derived from the three marks.
type Score struct {
	Base
	StudentID    int64   `json:"student_id" db:"student_id" validate:"required"`
	AssignmentID int64   `json:"assignment_id" db:"assignment_id" validate:"required"`
	ClassID      int64   `json:"class_id" db:"class_id"`
	SubjectID    int64   `json:"subject_id" db:"subject_id"`
	Term         Term    `json:"term" db:"term" validate:"required,enum"`
	Session      string  `json:"session" db:"session" validate:"required,session"`
	CA1          float64 `json:"ca1" db:"ca1"`
	CA2          float64 `json:"ca2" db:"ca2"`
	Exam         float64 `json:"exam" db:"exam"`
	Total        float64 `json:"total" db:"total"`
	Grade        string  `json:"grade" db:"grade"`
	Remark       string  `json:"remark" db:"remark"`
}
