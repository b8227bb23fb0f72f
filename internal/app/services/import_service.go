package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/repositories"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
	"github.com/yigit/cleartrack/internal/pkg/passgen"
	"github.com/yigit/cleartrack/internal/pkg/spreadsheet"
)

// importBatchSize is how many accounts are inserted per transaction during
// a bulk import.
const importBatchSize = 50

// Required spreadsheet columns. Optional columns are matched against the
// spellings below, first non-empty wins.
const (
	columnUniversityID = "University ID"
	columnFullName     = "Full Name"
)

var (
	emailColumns     = []string{"Email", "E-mail", "email"}
	deptColumns      = []string{"Department", "department"}
	stageColumns     = []string{"Stage", "stage"}
	studyTypeColumns = []string{"Study Type", "StudyType", "study type"}
)

// ImportService bulk-creates student accounts from a spreadsheet
type ImportService struct {
	userRepo repositories.IUserRepository
	reader   spreadsheet.Reader
	logger   zerolog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(userRepo repositories.IUserRepository, reader spreadsheet.Reader, logger zerolog.Logger) *ImportService {
	return &ImportService{
		userRepo: userRepo,
		reader:   reader,
		logger:   logger,
	}
}

// ImportStudents parses a workbook upload and creates one student account
// per usable row. Each account gets a generated one-time password returned
// in the result; rows that cannot be used are reported, not fatal.
func (s *ImportService) ImportStudents(ctx context.Context, filename string, r io.Reader) (*dto.ImportResult, error) {
	ext := filepath.Ext(filename)
	if !strings.EqualFold(ext, ".xlsx") && !strings.EqualFold(ext, ".xls") {
		return nil, apperrors.ErrUnsupportedFormat
	}

	headers, rows, err := s.reader.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSpreadsheetParse, err)
	}
	if missing := missingRequiredColumns(headers); len(missing) != 0 {
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrMissingColumns,
			Message: "required columns missing: " + strings.Join(missing, ", "),
			Details: map[string]interface{}{"missing": missing},
		}
	}

	result := &dto.ImportResult{
		Created: []dto.ImportedAccount{},
		Issues:  []dto.RowIssue{},
	}
	seen := make(map[string]bool, len(rows))
	var batch []*models.User
	var batchAccounts []dto.ImportedAccount

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.userRepo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to insert imported accounts: %w", err)
		}
		result.Created = append(result.Created, batchAccounts...)
		result.SuccessCount += len(batch)
		batch = batch[:0]
		batchAccounts = batchAccounts[:0]
		return nil
	}

	for _, row := range rows {
		universityID, _ := row.Get(columnUniversityID)
		fullName, _ := row.Get(columnFullName)
		if universityID == "" || fullName == "" {
			result.Issues = append(result.Issues, dto.RowIssue{
				Row:    row.Number,
				Reason: "missing university ID or full name",
			})
			continue
		}
		if seen[universityID] {
			result.Issues = append(result.Issues, dto.RowIssue{
				Row:    row.Number,
				Reason: fmt.Sprintf("duplicate university ID %s in file", universityID),
			})
			continue
		}
		seen[universityID] = true

		exists, err := s.userRepo.UniversityIDExists(ctx, universityID)
		if err != nil {
			return nil, fmt.Errorf("failed to check university ID: %w", err)
		}
		if exists {
			result.Issues = append(result.Issues, dto.RowIssue{
				Row:    row.Number,
				Reason: fmt.Sprintf("university ID %s already has an account", universityID),
			})
			continue
		}

		password, err := passgen.Generate(passgen.MinLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate password: %w", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		uid := universityID
		name := fullName
		pwd := password
		// the university ID doubles as the initial username
		user := &models.User{
			Role:         models.RoleStudent,
			UniversityID: &uid,
			Username:     &uid,
			FullName:     &name,
			PasswordHash: hash,
			TempPassword: &pwd,
			Email:        firstColumnValue(row, emailColumns),
			Department:   firstColumnValue(row, deptColumns),
			Stage:        firstColumnValue(row, stageColumns),
			StudyType:    firstColumnValue(row, studyTypeColumns),
		}
		batch = append(batch, user)
		batchAccounts = append(batchAccounts, dto.ImportedAccount{
			UniversityID: universityID,
			FullName:     fullName,
			TempPassword: password,
		})

		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("created", result.SuccessCount).
		Int("issues", len(result.Issues)).
		Msg("Student import finished")
	return result, nil
}

// missingRequiredColumns reports which required headers the sheet lacks.
func missingRequiredColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, required := range []string{columnUniversityID, columnFullName} {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// firstColumnValue returns the first non-empty value among the accepted
// spellings of an optional column.
func firstColumnValue(row spreadsheet.Row, names []string) *string {
	for _, name := range names {
		if v, ok := row.Get(name); ok && v != "" {
			value := v
			return &value
		}
	}
	return nil
}
