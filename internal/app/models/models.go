package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent           RoleType = "student"
	RoleDepartmentOfficer RoleType = "department_officer"
	RoleSystemAdmin       RoleType = "system_admin"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleDepartmentOfficer, RoleSystemAdmin:
		return true
	}
	return false
}

// ClearanceStatusType defines the per-department clearance decision
type ClearanceStatusType string

const (
	StatusPending  ClearanceStatusType = "pending"
	StatusApproved ClearanceStatusType = "approved"
	StatusRejected ClearanceStatusType = "rejected"
)

// Valid reports whether the status is one of the known statuses.
func (s ClearanceStatusType) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
