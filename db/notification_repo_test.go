package db

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/propvista/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewNotificationRepo(&GormDB{DB: gormDB}), mock
}

func TestGetTemplateByKeyActiveOnly(t *testing.T) {
	repo, mock := newMockRepo(t)

	templateID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "template_key", "title_template", "message_template", "is_active"}).
		AddRow(templateID, "Report Ready", "report_ready", "Your {{reportType}} report is ready", "Download it now", true)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notification_templates" WHERE template_key = $1 AND is_active = $2`)).
		WillReturnRows(rows)

	template, err := repo.GetTemplateByKey("report_ready")
	require.NoError(t, err)
	assert.Equal(t, templateID, template.ID)
	assert.Equal(t, "report_ready", template.TemplateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTemplateByKeyNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notification_templates" WHERE template_key = $1 AND is_active = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	template, err := repo.GetTemplateByKey("no_such_template")
	assert.Nil(t, template)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsReadScopedToUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	notificationID := uuid.New()
	userID := uint(7)

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.MarkAsRead(notificationID, &userID)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsReadMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	notificationID := uuid.New()
	userID := uint(7)

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.MarkAsRead(notificationID, &userID)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllAsReadReturnsCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.MarkAllAsRead(7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationsBatchEmptyIsNoop(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.CreateNotificationsBatch(nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotificationsCountsUnreadWithoutFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Filtered total.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Page query.
	notificationID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_type", "title", "message", "category", "is_read", "created_at"}).
			AddRow(notificationID, 7, models.UserTypeUser, "Report Ready", "Your report is ready", models.CategoryReport, false, now))

	// Unread count, independent of page filters.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	notifications, total, unread, err := repo.GetUserNotifications(7, models.NotificationQueryOptions{Category: models.CategoryReport})
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(4), unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPreferenceUpdateKeepsUnsetFields(t *testing.T) {
	prefs := models.DefaultNotificationPreferences(7)
	off := false
	weekly := models.DigestWeekly

	applyPreferenceUpdate(prefs, &models.UpdatePreferencesRequest{
		EmailNotifications: &off,
		DigestFrequency:    &weekly,
	})

	assert.False(t, prefs.EmailNotifications)
	assert.Equal(t, models.DigestWeekly, prefs.DigestFrequency)
	// Untouched fields keep their defaults.
	assert.True(t, prefs.PushNotifications)
	assert.True(t, prefs.ReportNotifications)
	assert.False(t, prefs.SmsNotifications)
}

func TestApplyPreferenceUpdateNilRequest(t *testing.T) {
	prefs := models.DefaultNotificationPreferences(7)
	applyPreferenceUpdate(prefs, nil)
	assert.True(t, prefs.EmailNotifications)
	assert.Equal(t, models.DigestImmediate, prefs.DigestFrequency)
}
