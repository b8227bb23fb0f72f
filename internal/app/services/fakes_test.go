package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
	"github.com/yigit/cleartrack/internal/pkg/spreadsheet"
	"github.com/yigit/cleartrack/internal/pkg/webpush"
)

// In-memory fakes for the repository and sender interfaces. Each fake keeps
// just enough state for the service tests and fails the same way the real
// implementation does.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64

	// optional dependent stores emptied by DeleteCascade, mirroring the
	// ordered deletes the SQL implementation runs in one transaction
	clearances    *fakeClearanceRepo
	notifications *fakeNotificationRepo
	pushes        *fakePushRepo
	resets        *fakeResetRepo
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	} else if user.ID > f.nextID {
		f.nextID = user.ID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if user.UniversityID != nil && existing.UniversityID != nil && *user.UniversityID == *existing.UniversityID {
			return 0, apperrors.ErrUniversityIDExists
		}
		if user.Username != nil && existing.Username != nil && *user.Username == *existing.Username {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		if user.Email != nil && existing.Email != nil && *user.Email == *existing.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.add(user)
	return user.ID, nil
}

func (f *fakeUserRepo) CreateBatch(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		if _, err := f.Create(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, user := range f.users {
		if (user.UniversityID != nil && *user.UniversityID == identifier) ||
			(user.Username != nil && *user.Username == identifier) {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetOfficerByDepartment(_ context.Context, department string) (*models.User, error) {
	var match *models.User
	for _, user := range f.users {
		if user.Role == models.RoleDepartmentOfficer && user.Department != nil && *user.Department == department {
			if match == nil || user.ID < match.ID {
				match = user
			}
		}
	}
	if match == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return match, nil
}

func (f *fakeUserRepo) ListAll(_ context.Context) ([]models.User, error) {
	var users []models.User
	for id := int64(1); id <= f.nextID; id++ {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role models.RoleType) ([]models.User, error) {
	var users []models.User
	for id := int64(1); id <= f.nextID; id++ {
		if user, ok := f.users[id]; ok && user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) UniversityIDExists(_ context.Context, universityID string) (bool, error) {
	for _, user := range f.users {
		if user.UniversityID != nil && *user.UniversityID == universityID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.TempPassword = nil
	return nil
}

func (f *fakeUserRepo) DeleteCascade(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if f.clearances != nil {
		for id, record := range f.clearances.records {
			if record.StudentID == userID {
				delete(f.clearances.records, id)
			}
		}
	}
	if f.notifications != nil {
		kept := f.notifications.notifications[:0]
		for _, n := range f.notifications.notifications {
			if n.UserID != userID {
				kept = append(kept, n)
			}
		}
		f.notifications.notifications = kept
	}
	if f.pushes != nil {
		kept := f.pushes.subs[:0]
		for _, sub := range f.pushes.subs {
			if sub.UserID != userID {
				kept = append(kept, sub)
			}
		}
		f.pushes.subs = kept
	}
	if f.resets != nil {
		for token, reset := range f.resets.tokens {
			if reset.UserID == userID {
				delete(f.resets.tokens, token)
			}
		}
	}
	delete(f.users, userID)
	return nil
}

type fakeClearanceRepo struct {
	records map[int64]*models.ClearanceRecord
	nextID  int64
}

func newFakeClearanceRepo() *fakeClearanceRepo {
	return &fakeClearanceRepo{records: map[int64]*models.ClearanceRecord{}}
}

func (f *fakeClearanceRepo) CreateForDepartments(_ context.Context, studentID int64, departments []string) error {
	for _, record := range f.records {
		if record.StudentID == studentID {
			return apperrors.ErrRequestAlreadySubmitted
		}
	}
	for _, dept := range departments {
		f.nextID++
		f.records[f.nextID] = &models.ClearanceRecord{
			ID:         f.nextID,
			StudentID:  studentID,
			Department: dept,
			Status:     models.StatusPending,
			UpdatedAt:  time.Now().UTC(),
		}
	}
	return nil
}

func (f *fakeClearanceRepo) HasRecords(_ context.Context, studentID int64) (bool, error) {
	for _, record := range f.records {
		if record.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClearanceRepo) GetByID(_ context.Context, id int64) (*models.ClearanceRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, apperrors.ErrClearanceRecordNotFound
	}
	return record, nil
}

func (f *fakeClearanceRepo) ListByStudent(_ context.Context, studentID int64) ([]models.ClearanceRecord, error) {
	var records []models.ClearanceRecord
	for id := int64(1); id <= f.nextID; id++ {
		if record, ok := f.records[id]; ok && record.StudentID == studentID {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (f *fakeClearanceRepo) ListByDepartment(_ context.Context, department string) ([]models.ClearanceRecord, error) {
	var records []models.ClearanceRecord
	for id := int64(1); id <= f.nextID; id++ {
		if record, ok := f.records[id]; ok && record.Department == department {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (f *fakeClearanceRepo) ListAll(_ context.Context) ([]models.ClearanceRecord, error) {
	var records []models.ClearanceRecord
	for id := int64(1); id <= f.nextID; id++ {
		if record, ok := f.records[id]; ok {
			records = append(records, *record)
		}
	}
	return records, nil
}

func (f *fakeClearanceRepo) UpdateStatus(_ context.Context, id int64, status models.ClearanceStatusType, comment *string) error {
	record, ok := f.records[id]
	if !ok {
		return apperrors.ErrClearanceRecordNotFound
	}
	record.Status = status
	record.Comment = comment
	record.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeClearanceRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(f.records))
	f.records = map[int64]*models.ClearanceRecord{}
	return count, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	nextID        int64
	createErr     error
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	notification.ID = f.nextID
	notification.CreatedAt = time.Now().UTC()
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	var result []models.Notification
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserID == userID {
			result = append(result, *f.notifications[i])
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) error {
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkMatchingRead(_ context.Context, userID int64, message string) error {
	for _, n := range f.notifications {
		if n.UserID == userID && n.Message == message {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteAll(_ context.Context) (int64, error) {
	count := int64(len(f.notifications))
	f.notifications = nil
	return count, nil
}

type fakePushRepo struct {
	subs   []*models.PushSubscription
	nextID int64
}

func (f *fakePushRepo) Create(_ context.Context, sub *models.PushSubscription) error {
	for _, existing := range f.subs {
		if existing.UserID == sub.UserID && existing.Endpoint == sub.Endpoint {
			return apperrors.ErrConflict
		}
	}
	f.nextID++
	sub.ID = f.nextID
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakePushRepo) ListByUser(_ context.Context, userID int64) ([]models.PushSubscription, error) {
	var result []models.PushSubscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			result = append(result, *sub)
		}
	}
	return result, nil
}

func (f *fakePushRepo) DeleteByEndpoint(_ context.Context, userID int64, endpoint string) error {
	for i, sub := range f.subs {
		if sub.UserID == userID && sub.Endpoint == endpoint {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

func (f *fakePushRepo) Exists(_ context.Context, userID int64, endpoint string) (bool, error) {
	for _, sub := range f.subs {
		if sub.UserID == userID && sub.Endpoint == endpoint {
			return true, nil
		}
	}
	return false, nil
}

type fakeResetRepo struct {
	tokens map[string]*models.PasswordResetToken
	nextID int64
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*models.PasswordResetToken{}}
}

func (f *fakeResetRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	f.nextID++
	token.ID = f.nextID
	token.CreatedAt = time.Now().UTC()
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrInvalidResetToken
	}
	return t, nil
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id int64) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

type sentPush struct {
	endpoint string
	payload  webpush.Payload
}

type fakePushSender struct {
	sent          []sentPush
	failEndpoints map[string]bool
}

func (f *fakePushSender) Send(sub webpush.Subscription, payload webpush.Payload) error {
	if f.failEndpoints[sub.Endpoint] {
		return errors.New("push endpoint gone")
	}
	f.sent = append(f.sent, sentPush{endpoint: sub.Endpoint, payload: payload})
	return nil
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) Send(toEmail, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: toEmail, subject: subject, body: body})
	return nil
}

type fakeSheetReader struct {
	headers []string
	rows    []spreadsheet.Row
	err     error
}

func (f *fakeSheetReader) Read(io.Reader) ([]string, []spreadsheet.Row, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.headers, f.rows, nil
}
