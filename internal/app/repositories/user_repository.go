package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/db"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/dberrors"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	CreateBatch(ctx context.Context, users []*models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetOfficerByDepartment(ctx context.Context, department string) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.RoleType) ([]models.User, error)
	UniversityIDExists(ctx context.Context, universityID string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	DeleteCascade(ctx context.Context, userID int64) error
}

const userColumns = `id, university_id, username, email, password_hash, role,
		full_name, department, stage, study_type, temp_password, created_at`

// UserRepository handles user persistence on PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.UniversityID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.FullName, &user.Department, &user.Stage, &user.StudyType,
		&user.TempPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

// translateUniqueViolation maps unique-index violations to the matching
// sentinel so handlers can report which field conflicted.
func translateUniqueViolation(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, "users_university_id_key"):
		return apperrors.ErrUniversityIDExists
	case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
		return apperrors.ErrUsernameAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsUniqueViolation(err):
		return apperrors.ErrConflict
	}
	return err
}

// Create inserts a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (university_id, username, email, password_hash, role,
			full_name, department, stage, study_type, temp_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		user.UniversityID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.FullName, user.Department, user.Stage, user.StudyType, user.TempPassword).Scan(&id)
	if err != nil {
		return 0, translateUniqueViolation(err)
	}

	user.ID = id
	return id, nil
}

// CreateBatch inserts users in a single transaction. Used by the bulk import
// to commit one fixed-size batch at a time.
func (r *UserRepository) CreateBatch(ctx context.Context, users []*models.User) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, user := range users {
			err := tx.QueryRow(ctx, `
				INSERT INTO users (university_id, username, email, password_hash, role,
					full_name, department, stage, study_type, temp_password)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id`,
				user.UniversityID, user.Username, user.Email, user.PasswordHash, user.Role,
				user.FullName, user.Department, user.Stage, user.StudyType, user.TempPassword).Scan(&user.ID)
			if err != nil {
				return translateUniqueViolation(err)
			}
		}
		return nil
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id))
}

// GetByIdentifier retrieves a user by university ID or username
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE university_id = $1 OR username = $1`, identifier))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`, email))
}

// GetOfficerByDepartment retrieves the department officer responsible for a
// department. When several exist the oldest account wins.
func (r *UserRepository) GetOfficerByDepartment(ctx context.Context, department string) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND department = $2
		ORDER BY id
		LIMIT 1`, models.RoleDepartmentOfficer, department))
}

// ListAll retrieves every user ordered by ID
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListByRole retrieves all users with the given role ordered by ID
func (r *UserRepository) ListByRole(ctx context.Context, role models.RoleType) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("error listing users by role: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// UniversityIDExists checks if a university ID is already registered
func (r *UserRepository) UniversityIDExists(ctx context.Context, universityID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE university_id = $1)`,
		universityID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking university ID: %w", err)
	}
	return exists, nil
}

// Update persists all mutable user fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET university_id = $1, username = $2, email = $3, password_hash = $4,
			role = $5, full_name = $6, department = $7, stage = $8, study_type = $9
		WHERE id = $10`,
		user.UniversityID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.FullName, user.Department, user.Stage, user.StudyType, user.ID)
	if err != nil {
		return translateUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash. The one-time import
// credential is cleared at the same time: once the student sets their own
// password it must not be shown again.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, temp_password = NULL
		WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteCascade removes the user and all dependent rows in one transaction.
// Dependent rows go first; the store has no ON DELETE CASCADE.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM clearance_records WHERE student_id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting clearance records: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting notifications: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM push_subscriptions WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting push subscriptions: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting reset tokens: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}
