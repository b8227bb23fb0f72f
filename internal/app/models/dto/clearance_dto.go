package dto

import (
	"time"

	"github.com/yigit/cleartrack/internal/app/models"
)

// DecisionRequest is the officer's approve/reject form for one record.
type DecisionRequest struct {
	Status  string `json:"status" binding:"required,clearance_decision"`
	Comment string `json:"comment" binding:"max=200"`
}

// ClearanceResponse bundles a student's records with the completion rollup.
type ClearanceResponse struct {
	Records    []models.ClearanceRecord `json:"records"`
	IsComplete bool                     `json:"isComplete"`
	Requested  bool                     `json:"requested"` // false until the student submits a request
}

// StudentSummary is one dashboard line for the admin view.
type StudentSummary struct {
	Student    models.User              `json:"student"`
	Records    []models.ClearanceRecord `json:"records"`
	IsComplete bool                     `json:"isComplete"`
}

// DashboardResponse is the admin analytics payload.
type DashboardResponse struct {
	TotalStudents  int              `json:"totalStudents"`
	CompletedCount int              `json:"completedCount"`
	PendingCount   int              `json:"pendingCount"`
	PendingByDept  map[string]int   `json:"pendingByDepartment"`
	Departments    []string         `json:"departments"`
	Students       []StudentSummary `json:"students"`
}

// ClearanceFormResponse is the printable final clearance form, available
// only once every department has approved.
type ClearanceFormResponse struct {
	Student     models.User              `json:"student"`
	Records     []models.ClearanceRecord `json:"records"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

// ResetCycleResponse reports what a new-cycle reset removed.
type ResetCycleResponse struct {
	DeletedClearances    int64 `json:"deletedClearances"`
	DeletedNotifications int64 `json:"deletedNotifications"`
}
