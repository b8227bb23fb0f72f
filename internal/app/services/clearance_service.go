package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
)

// IsComplete reports whether a student's clearance is finished: every
// configured department must have an approved record. A missing record
// counts as incomplete even when all existing ones are approved.
func IsComplete(records []models.ClearanceRecord, departments []string) bool {
	if len(departments) == 0 {
		return false
	}
	approved := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Status == models.StatusApproved {
			approved[rec.Department] = true
		}
	}
	for _, dept := range departments {
		if !approved[dept] {
			return false
		}
	}
	return true
}

// ClearanceService handles the sign-off workflow
type ClearanceService struct {
	clearanceRepo    repositories.IClearanceRepository
	userRepo         repositories.IUserRepository
	notificationRepo repositories.INotificationRepository
	notifier         *Notifier
	departments      []string
	logger           zerolog.Logger
}

// NewClearanceService creates a new ClearanceService
func NewClearanceService(
	clearanceRepo repositories.IClearanceRepository,
	userRepo repositories.IUserRepository,
	notificationRepo repositories.INotificationRepository,
	notifier *Notifier,
	departments []string,
	logger zerolog.Logger,
) *ClearanceService {
	return &ClearanceService{
		clearanceRepo:    clearanceRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		departments:      departments,
		logger:           logger,
	}
}

// MyClearance returns the student's own records with the completion rollup.
// Requested is false until the student has submitted a request.
func (s *ClearanceService) MyClearance(ctx context.Context, studentID int64) (*dto.ClearanceResponse, error) {
	records, err := s.clearanceRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.ClearanceResponse{
		Records:    records,
		IsComplete: IsComplete(records, s.departments),
		Requested:  len(records) > 0,
	}, nil
}

// SubmitRequest opens a pending record for every configured department and
// tells each department's officer. Submitting twice fails.
func (s *ClearanceService) SubmitRequest(ctx context.Context, student *models.User) error {
	if err := s.clearanceRepo.CreateForDepartments(ctx, student.ID, s.departments); err != nil {
		return err
	}

	message := NewRequestMessage(student.DisplayName())
	for _, dept := range s.departments {
		officer, err := s.userRepo.GetOfficerByDepartment(ctx, dept)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				continue
			}
			s.logger.Error().Err(err).Str("department", dept).Msg("Failed to look up officer")
			continue
		}
		if err := s.notifier.Notify(ctx, officer, "New clearance request", message); err != nil {
			s.logger.Error().Err(err).Int64("officer_id", officer.ID).Msg("Failed to notify officer")
		}
	}

	s.logger.Info().Int64("student_id", student.ID).Msg("Clearance request submitted")
	return nil
}

// DecideRecord applies an officer's approve/reject decision to one record.
// Officers can only decide records of their own department.
func (s *ClearanceService) DecideRecord(ctx context.Context, officer *models.User, recordID int64, req *dto.DecisionRequest) (*models.ClearanceRecord, error) {
	status := models.ClearanceStatusType(req.Status)
	if !status.Valid() || status == models.StatusPending {
		return nil, apperrors.NewValidationError("status must be approved or rejected")
	}

	record, err := s.clearanceRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if officer.Department == nil || *officer.Department != record.Department {
		return nil, apperrors.ErrPermissionDenied
	}

	comment := optional(req.Comment)
	if err := s.clearanceRepo.UpdateStatus(ctx, recordID, status, comment); err != nil {
		return nil, err
	}
	record.Status = status
	record.Comment = comment
	record.UpdatedAt = time.Now().UTC()

	student, err := s.userRepo.GetByID(ctx, record.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("student_id", record.StudentID).Msg("Failed to load student for notification")
		return record, nil
	}

	if err := s.notifier.Notify(ctx, student, "Clearance update",
		DecisionMessage(record.Department, status, req.Comment)); err != nil {
		s.logger.Error().Err(err).Int64("student_id", student.ID).Msg("Failed to notify student")
	}

	// The officer dealt with this request; retire their unread copy of it.
	if err := s.notificationRepo.MarkMatchingRead(ctx, officer.ID, NewRequestMessage(student.DisplayName())); err != nil {
		s.logger.Warn().Err(err).Int64("officer_id", officer.ID).Msg("Failed to retire request notification")
	}

	s.logger.Info().
		Int64("record_id", recordID).
		Str("status", string(status)).
		Str("department", record.Department).
		Msg("Clearance decision recorded")
	return record, nil
}

// DepartmentRecords lists every record addressed to the officer's
// department, student details included.
func (s *ClearanceService) DepartmentRecords(ctx context.Context, officer *models.User) ([]models.ClearanceRecord, error) {
	if officer.Department == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.clearanceRepo.ListByDepartment(ctx, *officer.Department)
}

// ClearanceForm returns the printable final form. Available only after
// every department has approved.
func (s *ClearanceService) ClearanceForm(ctx context.Context, studentID int64) (*dto.ClearanceFormResponse, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records, err := s.clearanceRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !IsComplete(records, s.departments) {
		return nil, apperrors.ErrClearanceIncomplete
	}
	return &dto.ClearanceFormResponse{
		Student:     *student,
		Records:     records,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Dashboard assembles the admin's monitoring view over every student.
func (s *ClearanceService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	students, err := s.userRepo.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	records, err := s.clearanceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[int64][]models.ClearanceRecord, len(students))
	pendingByDept := make(map[string]int, len(s.departments))
	for _, dept := range s.departments {
		pendingByDept[dept] = 0
	}
	for _, rec := range records {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
		if rec.Status == models.StatusPending {
			// records for departments no longer configured stay out of the counts
			if _, ok := pendingByDept[rec.Department]; ok {
				pendingByDept[rec.Department]++
			}
		}
	}

	resp := &dto.DashboardResponse{
		TotalStudents: len(students),
		PendingByDept: pendingByDept,
		Departments:   s.departments,
		Students:      make([]dto.StudentSummary, 0, len(students)),
	}
	for _, student := range students {
		recs := byStudent[student.ID]
		// every not-yet-complete student is pending, including those who
		// have not submitted a request
		complete := IsComplete(recs, s.departments)
		if complete {
			resp.CompletedCount++
		} else {
			resp.PendingCount++
		}
		resp.Students = append(resp.Students, dto.StudentSummary{
			Student:    student,
			Records:    recs,
			IsComplete: complete,
		})
	}
	return resp, nil
}

// ResetCycle wipes every clearance record and notification so a new term
// can start with the same accounts.
func (s *ClearanceService) ResetCycle(ctx context.Context) (*dto.ResetCycleResponse, error) {
	deletedClearances, err := s.clearanceRepo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete clearance records: %w", err)
	}
	deletedNotifications, err := s.notificationRepo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete notifications: %w", err)
	}

	s.logger.Info().
		Int64("clearances", deletedClearances).
		Int64("notifications", deletedNotifications).
		Msg("Clearance cycle reset")
	return &dto.ResetCycleResponse{
		DeletedClearances:    deletedClearances,
		DeletedNotifications: deletedNotifications,
	}, nil
}
