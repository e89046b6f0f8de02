package models

type Student struct {
	Base
	AdmissionNo string `json:"admission_no" db:"admission_no" validate:"required"`
	FirstName   string `json:"first_name" db:"first_name" validate:"required"`
	LastName    string `json:"last_name" db:"last_name" validate:"required"`
	Gender      Gender `json:"gender" db:"gender" validate:"required,enum"`
	DateOfBirth *Date  `json:"date_of_birth" db:"date_of_birth"`
	ClassID     *int64 `json:"class_id" db:"class_id"`
	ParentID    *int64 `json:"parent_id" db:"parent_id"`
	Status      Status `json:"status" db:"status" validate:"required,enum"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// InClass reports whether the student is enrolled in the class.
func (s *Student) InClass(classID int64) bool {
	return s.ClassID != nil && *s.ClassID == classID
}
