package models

// Teacher is a member of staff who can be assigned subjects and classes.
type Teacher struct {
	Base
	UserID        *int64 `json:"user_id" db:"user_id"`
	StaffNo       string `json:"staff_no" db:"staff_no" validate:"required"`
	FirstName     string `json:"first_name" db:"first_name" validate:"required"`
	LastName      string `json:"last_name" db:"last_name" validate:"required"`
	Email         string `json:"email" db:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" db:"phone"`
	DepartmentID  *int64 `json:"department_id" db:"department_id"`
	Qualification string `json:"qualification" db:"qualification"`
	Status        Status `json:"status" db:"status" validate:"required,enum"`
}

func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
