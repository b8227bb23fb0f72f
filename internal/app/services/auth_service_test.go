package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "cleartrack-test",
	})
}

type authFixture struct {
	service     *AuthService
	userRepo    *fakeUserRepo
	resetRepo   *fakeResetRepo
	emailSender *fakeEmailSender
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	resetRepo := newFakeResetRepo()
	emailSender := &fakeEmailSender{}
	service := NewAuthService(userRepo, resetRepo, newTestJWTService(), emailSender, zerolog.Nop())
	return &authFixture{service: service, userRepo: userRepo, resetRepo: resetRepo, emailSender: emailSender}
}

func (f *authFixture) addAccount(t *testing.T, identifier, password string, role models.RoleType) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{Role: role, PasswordHash: hash}
	switch role {
	case models.RoleStudent:
		user.UniversityID = strPtr(identifier)
	default:
		user.Username = strPtr(identifier)
	}
	return f.userRepo.add(user)
}

func TestLoginStudentByUniversityID(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount(t, "202110023", "s3cret!", models.RoleStudent)

	resp, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "202110023",
		Password:   "s3cret!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, string(models.RoleStudent), resp.Role)
	assert.Equal(t, 3600, resp.ExpiresIn)
}

func TestLoginStaffByUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount(t, "accounts.officer", "hunter22", models.RoleDepartmentOfficer)

	resp, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "accounts.officer",
		Password:   "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleDepartmentOfficer), resp.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount(t, "202110023", "s3cret!", models.RoleStudent)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "202110023",
		Password:   "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownIdentifier(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Identifier: "nobody",
		Password:   "whatever",
	})
	// Unknown accounts answer the same as a bad password.
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestForgotPasswordSendsToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addAccount(t, "202110023", "s3cret!", models.RoleStudent)
	user.Email = strPtr("student@school.edu")

	require.NoError(t, f.service.ForgotPassword(context.Background(), "student@school.edu"))

	require.Len(t, f.emailSender.sent, 1)
	require.Len(t, f.resetRepo.tokens, 1)
	for token := range f.resetRepo.tokens {
		assert.Contains(t, f.emailSender.sent[0].body, token)
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "nobody@school.edu"))
	assert.Empty(t, f.emailSender.sent)
	assert.Empty(t, f.resetRepo.tokens)
}

func TestResetPasswordHappyPath(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addAccount(t, "202110023", "old-password", models.RoleStudent)
	user.Email = strPtr("student@school.edu")
	require.NoError(t, f.service.ForgotPassword(context.Background(), "student@school.edu"))

	var tokenValue string
	for token := range f.resetRepo.tokens {
		tokenValue = token
	}

	err := f.service.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:    tokenValue,
		Password: "new-password",
	})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "new-password"))

	// Second redemption is refused.
	err = f.service.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:    tokenValue,
		Password: "another-one",
	})
	assert.ErrorIs(t, err, apperrors.ErrResetTokenUsed)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.addAccount(t, "202110023", "old-password", models.RoleStudent)

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, f.resetRepo.Create(context.Background(), token))

	err := f.service.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:    "expired-token",
		Password: "new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:    "no-such-token",
		Password: "new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
}
