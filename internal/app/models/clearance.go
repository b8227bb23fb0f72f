package models

import (
	"time"
)

// ClearanceRecord defines one row of the 'clearance_records' table: a single
// (student, department) sign-off. A student has at most one record per
// department; the full set is created in bulk when the student submits a
// clearance request.
type ClearanceRecord struct {
	ID         int64               `json:"id" db:"id" example:"1"`
	StudentID  int64               `json:"studentId" db:"student_id" example:"5"`           // Owning student user ID
	Department string              `json:"department" db:"department" example:"Accounts"`   // One of the configured departments
	Status     ClearanceStatusType `json:"status" db:"status" example:"pending"`            // pending, approved or rejected
	Comment    *string             `json:"comment,omitempty" db:"comment"`                  // Officer's note (nullable)
	UpdatedAt  time.Time           `json:"updatedAt" db:"updated_at"`                       // Timestamp of the last decision

	// Relation (populated when needed)
	Student *User `json:"student,omitempty"`
}
