package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/auth"
	"github.com/yigit/cleartrack/internal/pkg/passgen"
	"github.com/yigit/cleartrack/internal/pkg/spreadsheet"
)

func sheetRow(number int, values map[string]string) spreadsheet.Row {
	return spreadsheet.Row{Number: number, Values: values}
}

func TestImportStudentsRejectsUnsupportedExtension(t *testing.T) {
	service := NewImportService(newFakeUserRepo(), &fakeSheetReader{}, zerolog.Nop())

	_, err := service.ImportStudents(context.Background(), "students.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	_, err = service.ImportStudents(context.Background(), "students", strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
}

func TestImportStudentsRejectsMissingColumns(t *testing.T) {
	reader := &fakeSheetReader{headers: []string{"University ID", "Notes"}}
	service := NewImportService(newFakeUserRepo(), reader, zerolog.Nop())

	_, err := service.ImportStudents(context.Background(), "students.xlsx", strings.NewReader(""))
	require.ErrorIs(t, err, apperrors.ErrMissingColumns)
	assert.Contains(t, err.Error(), "Full Name")
}

func TestImportStudentsCreatesAccounts(t *testing.T) {
	userRepo := newFakeUserRepo()
	reader := &fakeSheetReader{
		headers: []string{"University ID", "Full Name", "Email", "Stage"},
		rows: []spreadsheet.Row{
			sheetRow(2, map[string]string{"University ID": "1001", "Full Name": "First Student", "Email": "first@school.edu", "Stage": "Fourth"}),
			sheetRow(3, map[string]string{"University ID": "1002", "Full Name": "Second Student"}),
		},
	}
	service := NewImportService(userRepo, reader, zerolog.Nop())

	result, err := service.ImportStudents(context.Background(), "students.xlsx", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Created, 2)
	assert.Empty(t, result.Issues)

	assert.Equal(t, "1001", result.Created[0].UniversityID)
	assert.Len(t, result.Created[0].TempPassword, passgen.MinLength)

	created, err := userRepo.GetByIdentifier(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, created.Role)
	// the university ID is also the initial username
	require.NotNil(t, created.Username)
	assert.Equal(t, "1001", *created.Username)
	require.NotNil(t, created.Email)
	assert.Equal(t, "first@school.edu", *created.Email)
	require.NotNil(t, created.Stage)
	assert.Equal(t, "Fourth", *created.Stage)
	require.NotNil(t, created.TempPassword)

	// The stored hash matches the returned one-time password.
	assert.True(t, auth.CheckPassword(created.PasswordHash, result.Created[0].TempPassword))
}

func TestImportStudentsReportsRowIssues(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.add(&models.User{
		Role:         models.RoleStudent,
		UniversityID: strPtr("1001"),
		FullName:     strPtr("Existing Student"),
	})

	reader := &fakeSheetReader{
		headers: []string{"University ID", "Full Name"},
		rows: []spreadsheet.Row{
			sheetRow(2, map[string]string{"University ID": "1001", "Full Name": "Existing Student"}),
			sheetRow(3, map[string]string{"University ID": "", "Full Name": "No ID"}),
			sheetRow(4, map[string]string{"University ID": "1002", "Full Name": "Fresh Student"}),
			sheetRow(5, map[string]string{"University ID": "1002", "Full Name": "Duplicate In File"}),
		},
	}
	service := NewImportService(userRepo, reader, zerolog.Nop())

	result, err := service.ImportStudents(context.Background(), "students.xlsx", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Issues, 3)

	rows := []int{result.Issues[0].Row, result.Issues[1].Row, result.Issues[2].Row}
	assert.Equal(t, []int{2, 3, 5}, rows)
}

func TestImportStudentsAlternateColumnSpellings(t *testing.T) {
	userRepo := newFakeUserRepo()
	reader := &fakeSheetReader{
		headers: []string{"University ID", "Full Name", "E-mail", "study type"},
		rows: []spreadsheet.Row{
			sheetRow(2, map[string]string{
				"University ID": "2001",
				"Full Name":     "Alt Columns",
				"E-mail":        "alt@school.edu",
				"study type":    "Evening",
			}),
		},
	}
	service := NewImportService(userRepo, reader, zerolog.Nop())

	result, err := service.ImportStudents(context.Background(), "students.xlsx", strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)

	created, err := userRepo.GetByIdentifier(context.Background(), "2001")
	require.NoError(t, err)
	require.NotNil(t, created.Email)
	assert.Equal(t, "alt@school.edu", *created.Email)
	require.NotNil(t, created.StudyType)
	assert.Equal(t, "Evening", *created.StudyType)
}

func TestImportStudentsWrapsParseErrors(t *testing.T) {
	reader := &fakeSheetReader{err: assert.AnError}
	service := NewImportService(newFakeUserRepo(), reader, zerolog.Nop())

	_, err := service.ImportStudents(context.Background(), "students.xlsx", strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrSpreadsheetParse)
}
