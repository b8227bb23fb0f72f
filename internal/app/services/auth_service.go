package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
	"github.com/yigit/cleartrack/internal/pkg/email"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = 30 * time.Minute

// AuthService handles authentication operations
type AuthService struct {
	userRepo    repositories.IUserRepository
	resetRepo   repositories.IPasswordResetTokenRepository
	jwtService  *auth.JWTService
	emailSender email.Sender
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	resetRepo repositories.IPasswordResetTokenRepository,
	jwtService *auth.JWTService,
	emailSender email.Sender,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		jwtService:  jwtService,
		emailSender: emailSender,
		logger:      logger,
	}
}

// Login authenticates any account type. The identifier is a university ID
// for students and a username for staff; which one is decided by lookup,
// not by the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	resp := &dto.LoginResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Role:      string(user.Role),
		UserID:    user.ID,
	}
	if user.FullName != nil {
		resp.FullName = *user.FullName
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return resp, nil
}

// ForgotPassword issues a reset token and mails the link. An unknown email
// returns success so the endpoint cannot be used to probe which addresses
// have accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up user by email: %w", err)
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Use this token to set a new password: %s\n\n"+
			"The token expires in 30 minutes. If you did not request a reset, ignore this message.",
		token.Token)
	if err := s.emailSender.Send(*user.Email, "Password reset", body); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to send reset email")
	}

	return nil
}

// ResetPassword redeems a single-use token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	token, err := s.resetRepo.GetByToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if token.Used {
		return apperrors.ErrResetTokenUsed
	}
	if !token.Usable(time.Now().UTC()) {
		return apperrors.ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.resetRepo.MarkUsed(ctx, token.ID); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	s.logger.Info().Int64("user_id", token.UserID).Msg("Password reset completed")
	return nil
}
