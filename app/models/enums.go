package models

// Enum is implemented by the string enums below so validation can check them generically.
type Enum interface {
	Valid() bool
}

// Role defines what a user may do in the dashboard.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeacher    Role = "teacher"
	RoleAccountant Role = "accountant"
	RoleParent     Role = "parent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleAccountant, RoleParent:
		return true
	}
	return false
}

// Status is the lifecycle state shared by people, classes and departments.
type Status string

const (
	StatusActive    Status = "Active"
	StatusInactive  Status = "Inactive"
	StatusGraduated Status = "Graduated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Term is one of the three academic periods of a session.
type Term string

const (
	FirstTerm  Term = "First Term"
	SecondTerm Term = "Second Term"
	ThirdTerm  Term = "Third Term"
)

func (t Term) Valid() bool {
	switch t {
	case FirstTerm, SecondTerm, ThirdTerm:
		return true
	}
	return false
}

// PaymentMethod is how a fee payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodPOS          PaymentMethod = "POS"
	MethodOnline       PaymentMethod = "Online"
	MethodCheque       PaymentMethod = "Cheque"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodPOS, MethodOnline, MethodCheque:
		return true
	}
	return false
}

// PaymentStatus defines the status of a payment. Only verified payments reduce a balance.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentVerified PaymentStatus = "Verified"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentVerified
}

// AttendanceStatus defines the possible status values for attendance.
type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
	Late    AttendanceStatus = "Late"
	Excused AttendanceStatus = "Excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Absent, Late, Excused:
		return true
	}
	return false
}

// Audience selects who receives a broadcast notification.
type Audience string

const (
	AudienceAll         Audience = "all"
	AudienceAdmins      Audience = "admins"
	AudienceTeachers    Audience = "teachers"
	AudienceAccountants Audience = "accountants"
	AudienceParents     Audience = "parents"
	AudienceUser        Audience = "user"
)

func (a Audience) Valid() bool {
	switch a {
	case AudienceAll, AudienceAdmins, AudienceTeachers, AudienceAccountants, AudienceParents, AudienceUser:
		return true
	}
	return false
}

// Includes reports whether a user with the given role belongs to the audience.
func (a Audience) Includes(r Role) bool {
	switch a {
	case AudienceAll:
		return true
	case AudienceAdmins:
		return r == RoleAdmin
	case AudienceTeachers:
		return r == RoleTeacher
	case AudienceAccountants:
		return r == RoleAccountant
	case AudienceParents:
		return r == RoleParent
	}
	return false
}
