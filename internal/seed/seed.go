package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/cleartrack/internal/app/models"
	appRepos "github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/config"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
)

// CreateDefaultAdmin creates the initial administrator account when it does
// not exist yet, so a fresh install can be logged into. The credentials come
// from the seed section of the configuration.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminUsername == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("Seed admin credentials not configured, skipping admin creation")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	_, err := userRepo.GetByIdentifier(ctx, cfg.Seed.AdminUsername)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	lgr.Info().Msg("Creating default admin user...")
	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	username := cfg.Seed.AdminUsername
	fullName := "System Administrator"
	admin := &appModels.User{
		Username:     &username,
		PasswordHash: hash,
		Role:         appModels.RoleSystemAdmin,
		FullName:     &fullName,
	}

	adminID, err := userRepo.Create(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
