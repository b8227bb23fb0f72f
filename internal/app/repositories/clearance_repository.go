package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/db"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/dberrors"
)

// IClearanceRepository defines the interface for clearance record operations
type IClearanceRepository interface {
	CreateForDepartments(ctx context.Context, studentID int64, departments []string) error
	HasRecords(ctx context.Context, studentID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.ClearanceRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.ClearanceRecord, error)
	ListByDepartment(ctx context.Context, department string) ([]models.ClearanceRecord, error)
	ListAll(ctx context.Context) ([]models.ClearanceRecord, error)
	UpdateStatus(ctx context.Context, id int64, status models.ClearanceStatusType, comment *string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ClearanceRepository handles clearance record persistence on PostgreSQL
type ClearanceRepository struct {
	db *pgxpool.Pool
}

// NewClearanceRepository creates a new ClearanceRepository
func NewClearanceRepository(db *pgxpool.Pool) *ClearanceRepository {
	return &ClearanceRepository{db: db}
}

// CreateForDepartments inserts one pending record per department in a single
// transaction. A duplicate (student, department) pair means the student
// already submitted a request.
func (r *ClearanceRepository) CreateForDepartments(ctx context.Context, studentID int64, departments []string) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, department := range departments {
			_, err := tx.Exec(ctx, `
				INSERT INTO clearance_records (student_id, department, status)
				VALUES ($1, $2, $3)`,
				studentID, department, models.StatusPending)
			if err != nil {
				if dberrors.IsUniqueViolation(err) {
					return apperrors.ErrRequestAlreadySubmitted
				}
				return fmt.Errorf("error creating clearance record: %w", err)
			}
		}
		return nil
	})
}

// HasRecords checks whether the student has any clearance record
func (r *ClearanceRepository) HasRecords(ctx context.Context, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM clearance_records WHERE student_id = $1)`,
		studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking clearance records: %w", err)
	}
	return exists, nil
}

// GetByID retrieves a single clearance record
func (r *ClearanceRepository) GetByID(ctx context.Context, id int64) (*models.ClearanceRecord, error) {
	record := &models.ClearanceRecord{}
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, department, status, comment, updated_at
		FROM clearance_records
		WHERE id = $1`, id).Scan(
		&record.ID, &record.StudentID, &record.Department, &record.Status,
		&record.Comment, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClearanceRecordNotFound
		}
		return nil, fmt.Errorf("error getting clearance record: %w", err)
	}
	return record, nil
}

// ListByStudent retrieves all records of one student in insertion order,
// which matches the configured department order.
func (r *ClearanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.ClearanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, department, status, comment, updated_at
		FROM clearance_records
		WHERE student_id = $1
		ORDER BY id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing clearance records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByDepartment retrieves all records of one department with the owning
// student populated, for the officer's review table.
func (r *ClearanceRepository) ListByDepartment(ctx context.Context, department string) ([]models.ClearanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.student_id, c.department, c.status, c.comment, c.updated_at,
			u.id, u.university_id, u.full_name, u.department, u.stage, u.study_type
		FROM clearance_records c
		JOIN users u ON u.id = c.student_id
		WHERE c.department = $1
		ORDER BY c.id`, department)
	if err != nil {
		return nil, fmt.Errorf("error listing department records: %w", err)
	}
	defer rows.Close()

	var records []models.ClearanceRecord
	for rows.Next() {
		var record models.ClearanceRecord
		student := models.User{Role: models.RoleStudent}
		err := rows.Scan(
			&record.ID, &record.StudentID, &record.Department, &record.Status,
			&record.Comment, &record.UpdatedAt,
			&student.ID, &student.UniversityID, &student.FullName,
			&student.Department, &student.Stage, &student.StudyType)
		if err != nil {
			return nil, fmt.Errorf("error scanning department record: %w", err)
		}
		record.Student = &student
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListAll retrieves every clearance record, for the admin dashboard rollup
func (r *ClearanceRepository) ListAll(ctx context.Context) ([]models.ClearanceRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, department, status, comment, updated_at
		FROM clearance_records
		ORDER BY student_id, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing clearance records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]models.ClearanceRecord, error) {
	var records []models.ClearanceRecord
	for rows.Next() {
		var record models.ClearanceRecord
		err := rows.Scan(
			&record.ID, &record.StudentID, &record.Department, &record.Status,
			&record.Comment, &record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning clearance record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdateStatus stores the officer's decision on a record
func (r *ClearanceRepository) UpdateStatus(ctx context.Context, id int64, status models.ClearanceStatusType, comment *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE clearance_records
		SET status = $1, comment = $2, updated_at = $3
		WHERE id = $4`,
		status, comment, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("error updating clearance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClearanceRecordNotFound
	}
	return nil
}

// DeleteAll removes every clearance record and returns the count, for the
// admin's new-cycle reset
func (r *ClearanceRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM clearance_records`)
	if err != nil {
		return 0, fmt.Errorf("error deleting clearance records: %w", err)
	}
	return tag.RowsAffected(), nil
}
