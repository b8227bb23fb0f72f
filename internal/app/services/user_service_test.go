package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
)

func newUserService(userRepo *fakeUserRepo) *UserService {
	return NewUserService(userRepo, testDepartments, zerolog.Nop())
}

func TestCreateUserStudentNullsStaffFields(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)

	user, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:         "student",
		FullName:     "John Doe",
		UniversityID: "202110023",
		Username:     "should-be-dropped",
		Password:     "s3cret!",
		Stage:        "Fourth",
		StudyType:    "Morning",
	})
	require.NoError(t, err)
	assert.Nil(t, user.Username)
	require.NotNil(t, user.UniversityID)
	assert.Equal(t, "202110023", *user.UniversityID)
	require.NotNil(t, user.Stage)
	assert.Equal(t, "Fourth", *user.Stage)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
}

func TestCreateUserStudentRequiresUniversityID(t *testing.T) {
	service := newUserService(newFakeUserRepo())

	_, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:     "student",
		FullName: "John Doe",
		Password: "s3cret!",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateUserOfficerNullsStudentFields(t *testing.T) {
	service := newUserService(newFakeUserRepo())

	user, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:         "department_officer",
		Username:     "accounts.officer",
		Department:   "Accounts",
		Password:     "s3cret!",
		UniversityID: "should-be-dropped",
		Stage:        "should-be-dropped",
	})
	require.NoError(t, err)
	assert.Nil(t, user.UniversityID)
	assert.Nil(t, user.Stage)
	require.NotNil(t, user.Department)
	assert.Equal(t, "Accounts", *user.Department)
}

func TestCreateUserOfficerUnknownDepartment(t *testing.T) {
	service := newUserService(newFakeUserRepo())

	_, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:       "department_officer",
		Username:   "ghost.officer",
		Department: "No Such Department",
		Password:   "s3cret!",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnknownDepartment)
}

func TestCreateUserAdminOnlyNeedsUsername(t *testing.T) {
	service := newUserService(newFakeUserRepo())

	user, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:     "system_admin",
		Username: "second.admin",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Nil(t, user.Department)
	assert.Nil(t, user.UniversityID)
}

func TestCreateUserDuplicateUniversityID(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)

	req := &dto.CreateUserRequest{
		Role:         "student",
		FullName:     "John Doe",
		UniversityID: "202110023",
		Password:     "s3cret!",
	}
	_, err := service.CreateUser(context.Background(), req)
	require.NoError(t, err)

	_, err = service.CreateUser(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrUniversityIDExists)
}

func TestUpdateUserKeepsPasswordWhenBlank(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)

	created, err := service.CreateUser(context.Background(), &dto.CreateUserRequest{
		Role:         "student",
		FullName:     "John Doe",
		UniversityID: "202110023",
		Password:     "s3cret!",
	})
	require.NoError(t, err)
	originalHash := created.PasswordHash

	updated, err := service.UpdateUser(context.Background(), created.ID, &dto.UpdateUserRequest{
		Role:         "student",
		FullName:     "John D. Doe",
		UniversityID: "202110023",
	})
	require.NoError(t, err)
	assert.Equal(t, originalHash, updated.PasswordHash)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "John D. Doe", *updated.FullName)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)
	admin := userRepo.add(&models.User{Role: models.RoleSystemAdmin, Username: strPtr("admin")})

	err := service.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfDeletion)
}

func TestDeleteUserRemovesAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)
	admin := userRepo.add(&models.User{Role: models.RoleSystemAdmin, Username: strPtr("admin")})
	student := userRepo.add(&models.User{Role: models.RoleStudent, UniversityID: strPtr("1001")})

	require.NoError(t, service.DeleteUser(context.Background(), admin.ID, student.ID))

	_, err := userRepo.GetByID(context.Background(), student.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteUserLeavesNoDependentRows(t *testing.T) {
	userRepo := newFakeUserRepo()
	clearanceRepo := newFakeClearanceRepo()
	notificationRepo := &fakeNotificationRepo{}
	pushRepo := &fakePushRepo{}
	resetRepo := newFakeResetRepo()
	userRepo.clearances = clearanceRepo
	userRepo.notifications = notificationRepo
	userRepo.pushes = pushRepo
	userRepo.resets = resetRepo
	service := newUserService(userRepo)

	admin := userRepo.add(&models.User{Role: models.RoleSystemAdmin, Username: strPtr("admin")})
	student := userRepo.add(&models.User{Role: models.RoleStudent, UniversityID: strPtr("1001")})
	other := userRepo.add(&models.User{Role: models.RoleStudent, UniversityID: strPtr("1002")})

	require.NoError(t, clearanceRepo.CreateForDepartments(context.Background(), student.ID, testDepartments))
	require.NoError(t, clearanceRepo.CreateForDepartments(context.Background(), other.ID, testDepartments))
	require.NoError(t, notificationRepo.Create(context.Background(), &models.Notification{UserID: student.ID, Message: "pending sign-off"}))
	require.NoError(t, notificationRepo.Create(context.Background(), &models.Notification{UserID: other.ID, Message: "pending sign-off"}))
	require.NoError(t, pushRepo.Create(context.Background(), &models.PushSubscription{UserID: student.ID, Endpoint: "https://push/one"}))
	require.NoError(t, resetRepo.Create(context.Background(), &models.PasswordResetToken{UserID: student.ID, Token: "tok-1"}))

	require.NoError(t, service.DeleteUser(context.Background(), admin.ID, student.ID))

	records, err := clearanceRepo.ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	notifications, err := notificationRepo.ListByUser(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)

	subs, err := pushRepo.ListByUser(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = resetRepo.GetByToken(context.Background(), "tok-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)

	// the other student's rows are untouched
	remaining, err := clearanceRepo.ListByStudent(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, len(testDepartments))
	otherNotifications, err := notificationRepo.ListByUser(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Len(t, otherNotifications, 1)
}

func TestDeleteUserUnknownID(t *testing.T) {
	userRepo := newFakeUserRepo()
	service := newUserService(userRepo)
	admin := userRepo.add(&models.User{Role: models.RoleSystemAdmin, Username: strPtr("admin")})

	err := service.DeleteUser(context.Background(), admin.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
