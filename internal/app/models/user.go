package models

import (
	"time"
)

// User defines the user model based on the 'users' table.
// Students log in with their university ID; staff log in with a username.
// Optional fields are only meaningful for certain roles and are stored NULL
// for the others: UniversityID, Department, Stage and StudyType for students,
// Username for staff, Department also for department officers.
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                       // Unique identifier for the user
	UniversityID *string   `json:"universityId,omitempty" db:"university_id" example:"202110023"` // Student's university number (students only)
	Username     *string   `json:"username,omitempty" db:"username" example:"registry.officer"`   // Login name for staff accounts
	Email        *string   `json:"email,omitempty" db:"email" example:"user@school.edu"`          // User's email address (nullable)
	PasswordHash string    `json:"-" db:"password_hash"`                                          // Hashed password (excluded from JSON)
	Role         RoleType  `json:"role" db:"role" example:"student"`                              // student, department_officer or system_admin
	FullName     *string   `json:"fullName,omitempty" db:"full_name" example:"John Doe"`          // Display name
	Department   *string   `json:"department,omitempty" db:"department" example:"Registration"`   // Department (students and officers)
	Stage        *string   `json:"stage,omitempty" db:"stage" example:"Fourth"`                   // Study stage (students only)
	StudyType    *string   `json:"studyType,omitempty" db:"study_type" example:"Morning"`         // Morning/evening (students only)
	TempPassword *string   `json:"tempPassword,omitempty" db:"temp_password"`                     // Transient plaintext credential, set only by bulk import
	CreatedAt    time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`      // Timestamp when the account was created
}

// DisplayName returns the university ID for students and the username for
// staff, falling back to the full name when neither is set.
func (u *User) DisplayName() string {
	if u.Role == RoleStudent && u.UniversityID != nil {
		return *u.UniversityID
	}
	if u.Username != nil {
		return *u.Username
	}
	if u.FullName != nil {
		return *u.FullName
	}
	return ""
}

// LoginIdentifier returns the identifier the account authenticates with.
func (u *User) LoginIdentifier() string {
	if u.UniversityID != nil {
		return *u.UniversityID
	}
	if u.Username != nil {
		return *u.Username
	}
	return ""
}
