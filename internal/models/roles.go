package models

// Role is the closed set of account roles. Stored as plain strings but only
// these four values are ever written.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleLabTech Role = "LabTech"
	RoleTeacher Role = "Teacher"
	RoleStudent Role = "Student"
)

var allowedRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RoleLabTech: {},
	RoleTeacher: {},
	RoleStudent: {},
}

func IsValidRole(role Role) bool {
	_, ok := allowedRoles[role]
	return ok
}
