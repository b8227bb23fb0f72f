package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
)

// UserService handles the administrator's account management
type UserService struct {
	userRepo    repositories.IUserRepository
	departments []string
	logger      zerolog.Logger
}

// NewUserService creates a new UserService. departments is the configured
// clearance chain; officer accounts must belong to one of them.
func NewUserService(userRepo repositories.IUserRepository, departments []string, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		departments: departments,
		logger:      logger,
	}
}

// ListUsers returns every account
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAll(ctx)
}

// GetUser retrieves a single account by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// CreateUser creates an account of any role. Fields that do not apply to
// the role are stored NULL regardless of what the form carried.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user, err := s.buildUser(req.Role, req.FullName, req.Username, req.Email,
		req.UniversityID, req.Department, req.Stage, req.StudyType)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info().Int64("user_id", id).Str("role", req.Role).Msg("User created")
	return user, nil
}

// UpdateUser rewrites an account. The password changes only when the form
// carries one.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	existing, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.buildUser(req.Role, req.FullName, req.Username, req.Email,
		req.UniversityID, req.Department, req.Stage, req.StudyType)
	if err != nil {
		return nil, err
	}
	user.ID = id
	user.PasswordHash = existing.PasswordHash
	user.CreatedAt = existing.CreatedAt

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("User updated")
	return user, nil
}

// DeleteUser removes an account and everything attached to it. Admins
// cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return apperrors.ErrSelfDeletion
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// buildUser assembles a User from form fields, enforcing which fields each
// role requires and nulling the rest.
func (s *UserService) buildUser(role, fullName, username, emailAddr, universityID, department, stage, studyType string) (*models.User, error) {
	r := models.RoleType(strings.TrimSpace(role))
	if !r.Valid() {
		return nil, apperrors.NewValidationError("unknown role")
	}

	user := &models.User{
		Role:     r,
		FullName: optional(fullName),
		Email:    optional(emailAddr),
	}

	switch r {
	case models.RoleStudent:
		uid := optional(universityID)
		if uid == nil {
			return nil, apperrors.NewValidationError("university ID is required for students")
		}
		if user.FullName == nil {
			return nil, apperrors.NewValidationError("full name is required for students")
		}
		user.UniversityID = uid
		user.Department = optional(department)
		user.Stage = optional(stage)
		user.StudyType = optional(studyType)
	case models.RoleDepartmentOfficer:
		uname := optional(username)
		if uname == nil {
			return nil, apperrors.NewValidationError("username is required for staff accounts")
		}
		dept := optional(department)
		if dept == nil {
			return nil, apperrors.NewValidationError("department is required for officers")
		}
		if !s.knownDepartment(*dept) {
			return nil, apperrors.ErrUnknownDepartment
		}
		user.Username = uname
		user.Department = dept
	case models.RoleSystemAdmin:
		uname := optional(username)
		if uname == nil {
			return nil, apperrors.NewValidationError("username is required for staff accounts")
		}
		user.Username = uname
	}

	return user, nil
}

func (s *UserService) knownDepartment(department string) bool {
	for _, d := range s.departments {
		if d == department {
			return true
		}
	}
	return false
}

// optional trims a form field and maps the empty string to NULL.
func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
