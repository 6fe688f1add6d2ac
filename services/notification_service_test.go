package services

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentEmail struct {
	Recipient string
	Subject   string
	HTMLBody  string
}

type fakeMailer struct {
	configured bool
	failSend   bool
	sent       []sentEmail
}

func (f *fakeMailer) Configured() bool { return f.configured }

func (f *fakeMailer) SendNotificationEmail(recipient, subject, htmlBody, textBody string) (string, error) {
	if f.failSend {
		return "", errors.New("smtp is down")
	}
	f.sent = append(f.sent, sentEmail{Recipient: recipient, Subject: subject, HTMLBody: htmlBody})
	return "queued", nil
}

// fakeNotificationRepo is an in-memory stand-in for the postgres store,
// honoring the same visibility and ordering rules.
type fakeNotificationRepo struct {
	notifications []*models.Notification
	templates     map[string]*models.NotificationTemplate
	prefs         map[uint]*models.NotificationPreferences
	userEmails    map[uint]string
	clock         time.Time

	failBatch bool
	failPrefs bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		templates:  make(map[string]*models.NotificationTemplate),
		prefs:      make(map[uint]*models.NotificationPreferences),
		userEmails: make(map[uint]string),
		clock:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeNotificationRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.CreatedAt = f.tick()
	n.UpdatedAt = n.CreatedAt
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) CreateNotificationsBatch(list []*models.Notification) error {
	if f.failBatch {
		return errors.New("batch insert failed")
	}
	for _, n := range list {
		if err := f.CreateNotification(n); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNotificationRepo) visible(n *models.Notification, userID uint) bool {
	if n.UserID != nil && *n.UserID == userID {
		return true
	}
	return n.UserID == nil && n.UserType == models.UserTypeAll
}

func (f *fakeNotificationRepo) GetUserNotifications(userID uint, opts models.NotificationQueryOptions) ([]models.Notification, int64, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var matching []models.Notification
	var unread int64
	for _, n := range f.notifications {
		if !f.visible(n, userID) {
			continue
		}
		if !n.IsRead {
			unread++
		}
		if opts.UnreadOnly && n.IsRead {
			continue
		}
		if opts.Category != "" && n.Category != opts.Category {
			continue
		}
		if opts.Priority != "" && n.Priority != opts.Priority {
			continue
		}
		matching = append(matching, *n)
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})

	total := int64(len(matching))
	if opts.Offset < len(matching) {
		matching = matching[opts.Offset:]
	} else {
		matching = nil
	}
	if len(matching) > opts.Limit {
		matching = matching[:opts.Limit]
	}
	return matching, total, unread, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id uuid.UUID, userID *uint) (bool, error) {
	for _, n := range f.notifications {
		if n.ID != id {
			continue
		}
		if userID != nil && !f.visible(n, *userID) {
			return false, nil
		}
		now := f.tick()
		n.IsRead = true
		n.ReadAt = &now
		n.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(userID uint) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if !f.visible(n, userID) || n.IsRead {
			continue
		}
		now := f.tick()
		n.IsRead = true
		n.ReadAt = &now
		n.UpdatedAt = now
		count++
	}
	return count, nil
}

func (f *fakeNotificationRepo) ArchiveNotification(id uuid.UUID, userID *uint) (bool, error) {
	for _, n := range f.notifications {
		if n.ID != id {
			continue
		}
		if userID != nil && !f.visible(n, *userID) {
			return false, nil
		}
		n.IsArchived = true
		n.UpdatedAt = f.tick()
		return true, nil
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkEmailSent(id uuid.UUID) error {
	for _, n := range f.notifications {
		if n.ID == id {
			now := f.tick()
			n.EmailSent = true
			n.EmailSentAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) CreateTemplate(t *models.NotificationTemplate) error {
	f.templates[t.TemplateKey] = t
	return nil
}

func (f *fakeNotificationRepo) GetTemplateByKey(key string) (*models.NotificationTemplate, error) {
	t, ok := f.templates[key]
	if !ok || !t.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeNotificationRepo) GetAllTemplates() ([]models.NotificationTemplate, error) {
	var out []models.NotificationTemplate
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetPreferences(userID uint) (*models.NotificationPreferences, error) {
	if f.failPrefs {
		return nil, errors.New("connection reset")
	}
	p, ok := f.prefs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeNotificationRepo) UpsertPreferences(userID uint, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	p, ok := f.prefs[userID]
	if !ok {
		p = models.DefaultNotificationPreferences(userID)
		f.prefs[userID] = p
	}
	if req != nil {
		if req.EmailNotifications != nil {
			p.EmailNotifications = *req.EmailNotifications
		}
		if req.ReportNotifications != nil {
			p.ReportNotifications = *req.ReportNotifications
		}
		if req.BookingNotifications != nil {
			p.BookingNotifications = *req.BookingNotifications
		}
	}
	return p, nil
}

func (f *fakeNotificationRepo) GetUserEmail(userID uint) (string, error) {
	email, ok := f.userEmails[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return email, nil
}

func newTestService() (NotificationService, *fakeNotificationRepo, *fakeMailer) {
	repo := newFakeNotificationRepo()
	mailer := &fakeMailer{configured: true}
	svc := NewNotificationService(repo, mailer, &config.Config{BaseUrl: "https://propvista.in"})
	return svc, repo, mailer
}

func seedBookingTemplate(repo *fakeNotificationRepo) {
	repo.templates["booking_confirmed"] = &models.NotificationTemplate{
		ID:                   uuid.New(),
		Name:                 "Booking Confirmed",
		TemplateKey:          "booking_confirmed",
		TitleTemplate:        "Site visit confirmed",
		MessageTemplate:      "Your site visit for {{propertyTitle}} has been confirmed.",
		EmailSubjectTemplate: "Site visit confirmed for {{propertyTitle}}",
		EmailBodyTemplate:    `<p>Your site visit for <b>{{propertyTitle}}</b> is confirmed.</p><p><a href="{{actionUrl}}">View</a></p>`,
		RequiresEmail:        true,
		Type:                 models.NotificationTypeSuccess,
		Category:             models.CategoryBooking,
		Priority:             models.PriorityMedium,
		IsActive:             true,
	}
}

func personalNotification(userID uint, category string) *models.Notification {
	return &models.Notification{
		UserID:   &userID,
		Title:    "hello",
		Message:  "world",
		Category: category,
	}
}

func TestBroadcastVisibleToEveryUser(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Broadcast(&models.BroadcastRequest{
		Title:   "Scheduled maintenance",
		Message: "The platform will be down on Sunday night.",
	})
	require.NoError(t, err)
	assert.Nil(t, created.UserID)
	assert.Equal(t, models.UserTypeAll, created.UserType)

	for _, userID := range []uint{1, 42, 9000} {
		feed, err := svc.GetUserNotifications(userID, models.NotificationQueryOptions{})
		require.NoError(t, err)
		require.Len(t, feed.Notifications, 1)
		assert.Equal(t, created.ID, feed.Notifications[0].ID)
	}
}

func TestPersonalNotificationHiddenFromOthers(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateNotification(personalNotification(1, models.CategorySystem))
	require.NoError(t, err)

	feed, err := svc.GetUserNotifications(2, models.NotificationQueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, feed.Notifications)
	assert.Zero(t, feed.UnreadCount)

	feed, err = svc.GetUserNotifications(1, models.NotificationQueryOptions{})
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 1)
	assert.Equal(t, int64(1), feed.UnreadCount)
}

func TestMarkAsReadRequiresOwnership(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.CreateNotification(personalNotification(1, models.CategorySystem))
	require.NoError(t, err)

	intruder := uint(2)
	updated, err := svc.MarkAsRead(created.ID, &intruder)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.False(t, repo.notifications[0].IsRead)

	owner := uint(1)
	updated, err = svc.MarkAsRead(created.ID, &owner)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.True(t, repo.notifications[0].IsRead)
	assert.NotNil(t, repo.notifications[0].ReadAt)
}

func TestMarkAllAsReadCountsThenZero(t *testing.T) {
	svc, _, _ := newTestService()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateNotification(personalNotification(1, models.CategorySystem))
		require.NoError(t, err)
	}
	_, err := svc.CreateNotification(personalNotification(2, models.CategorySystem))
	require.NoError(t, err)
	_, err = svc.Broadcast(&models.BroadcastRequest{Title: "hi", Message: "all"})
	require.NoError(t, err)

	// Three personal rows plus the broadcast.
	count, err := svc.MarkAllAsRead(1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	count, err = svc.MarkAllAsRead(1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// User 2's own row is untouched.
	feed, err := svc.GetUserNotifications(2, models.NotificationQueryOptions{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 1)
}

func TestRenderTemplateLeavesUnknownTokensVerbatim(t *testing.T) {
	out := renderTemplate("Hello {{name}}, your {{missing}} is ready", map[string]string{"name": "Priya"})
	assert.Equal(t, "Hello Priya, your {{missing}} is ready", out)

	out = renderTemplate("{{missing}}", map[string]string{})
	assert.Equal(t, "{{missing}}", out)
}

func TestGlobalEmailToggleSuppressesEverything(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	prefs := models.DefaultNotificationPreferences(1)
	prefs.EmailNotifications = false
	repo.prefs[1] = prefs

	for _, category := range []string{models.CategoryReport, models.CategoryBooking, models.CategorySystem} {
		_, err := svc.CreateNotification(personalNotification(1, category))
		require.NoError(t, err)
	}

	assert.Empty(t, mailer.sent)
	for _, n := range repo.notifications {
		assert.False(t, n.EmailSent)
	}
}

func TestCategoryToggleSuppressesOnlyItsCategory(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	prefs := models.DefaultNotificationPreferences(1)
	prefs.ReportNotifications = false
	repo.prefs[1] = prefs

	created, err := svc.CreateNotification(personalNotification(1, models.CategoryReport))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
	assert.False(t, created.EmailSent)

	created, err = svc.CreateNotification(personalNotification(1, models.CategoryBooking))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "priya@example.in", mailer.sent[0].Recipient)
	assert.True(t, created.EmailSent)
}

func TestMissingPreferencesRowDefaultsToSend(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"

	created, err := svc.CreateNotification(personalNotification(1, models.CategoryReport))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.True(t, created.EmailSent)
	assert.NotNil(t, created.EmailSentAt)
}

func TestUnmappedCategoryFallsThroughToSend(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	repo.prefs[1] = models.DefaultNotificationPreferences(1)

	_, err := svc.CreateNotification(personalNotification(1, "billing"))
	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestPreferenceLookupFailureSkipsEmail(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	repo.failPrefs = true

	created, err := svc.CreateNotification(personalNotification(1, models.CategoryReport))
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Empty(t, mailer.sent)
	assert.False(t, created.EmailSent)
}

func TestTemplateMissingReturnsNilAndNoRow(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uint(1)

	created, err := svc.CreateNotificationFromTemplate("no_such_key", &userID, nil)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, repo.notifications)
}

func TestInactiveTemplateTreatedAsMissing(t *testing.T) {
	svc, repo, _ := newTestService()
	seedBookingTemplate(repo)
	repo.templates["booking_confirmed"].IsActive = false
	userID := uint(1)

	created, err := svc.CreateNotificationFromTemplate("booking_confirmed", &userID, nil)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Empty(t, repo.notifications)
}

func TestNotifyBookingConfirmedEndToEnd(t *testing.T) {
	svc, repo, mailer := newTestService()
	seedBookingTemplate(repo)
	repo.userEmails[7] = "alice@x.com"

	booking := &models.Booking{
		ID:         uuid.New(),
		UserID:     7,
		PropertyID: uuid.New(),
		VisitDate:  time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
		TimeSlot:   "10:00-11:00",
		Status:     models.BookingStatusConfirmed,
	}

	created, err := svc.NotifyBookingConfirmed(7, booking, "Lakeview Apartments")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, models.CategoryBooking, created.Category)
	assert.Contains(t, created.Message, "Lakeview Apartments")
	assert.Contains(t, created.ActionURL, booking.ID.String())
	assert.Equal(t, "booking", created.RelatedEntityType)
	assert.Equal(t, booking.ID.String(), created.RelatedEntityID)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@x.com", mailer.sent[0].Recipient)
	assert.Contains(t, mailer.sent[0].Subject, "Lakeview Apartments")
	assert.Contains(t, mailer.sent[0].HTMLBody, booking.ID.String())
	assert.True(t, created.EmailSent)
}

func TestRequiresEmailBypassesCategoryToggle(t *testing.T) {
	svc, repo, mailer := newTestService()
	seedBookingTemplate(repo)
	repo.userEmails[7] = "alice@x.com"
	prefs := models.DefaultNotificationPreferences(7)
	prefs.BookingNotifications = false
	repo.prefs[7] = prefs

	booking := &models.Booking{ID: uuid.New(), UserID: 7, VisitDate: time.Now()}
	created, err := svc.NotifyBookingConfirmed(7, booking, "Lakeview Apartments")
	require.NoError(t, err)
	require.NotNil(t, created)

	// The template flag wins over the per-category preference.
	assert.Len(t, mailer.sent, 1)
}

func TestBulkInsertFailureSendsNothing(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	repo.failBatch = true

	_, err := svc.CreateBulkNotifications([]*models.Notification{
		personalNotification(1, models.CategorySystem),
		personalNotification(1, models.CategorySystem),
	})
	require.Error(t, err)
	assert.Empty(t, repo.notifications)
	assert.Empty(t, mailer.sent)
}

func TestBulkNotificationsEmailPerRow(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	repo.userEmails[2] = "rahul@example.in"
	prefs := models.DefaultNotificationPreferences(2)
	prefs.EmailNotifications = false
	repo.prefs[2] = prefs

	created, err := svc.CreateBulkNotifications([]*models.Notification{
		personalNotification(1, models.CategorySystem),
		personalNotification(2, models.CategorySystem),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	// Only user 1, whose email channel is open, gets an email.
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "priya@example.in", mailer.sent[0].Recipient)
}

func TestEmailFailureDoesNotRollBackNotification(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	mailer.failSend = true

	created, err := svc.CreateNotification(personalNotification(1, models.CategorySystem))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Len(t, repo.notifications, 1)
	assert.False(t, created.EmailSent)
	assert.Nil(t, created.EmailSentAt)
}

func TestUnconfiguredMailerSkipsSend(t *testing.T) {
	svc, repo, mailer := newTestService()
	repo.userEmails[1] = "priya@example.in"
	mailer.configured = false

	created, err := svc.CreateNotification(personalNotification(1, models.CategorySystem))
	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
	assert.False(t, created.EmailSent)
	assert.Empty(t, mailer.sent)
}

func TestCreateNotificationRejectsNilUserOutsideBroadcast(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateNotification(&models.Notification{
		Title:    "orphan",
		Message:  "no target",
		Category: models.CategorySystem,
	})
	require.Error(t, err)
	assert.Empty(t, repo.notifications)
}

func TestCreateNotificationRejectsUnknownEntityType(t *testing.T) {
	svc, repo, _ := newTestService()
	n := personalNotification(1, models.CategorySystem)
	n.RelatedEntityType = "warehouse"

	_, err := svc.CreateNotification(n)
	require.Error(t, err)
	assert.Empty(t, repo.notifications)
}

func TestGetUserNotificationsFiltersAndCounts(t *testing.T) {
	svc, _, _ := newTestService()

	for i := 0; i < 2; i++ {
		n := personalNotification(1, models.CategoryReport)
		_, err := svc.CreateNotification(n)
		require.NoError(t, err)
	}
	n := personalNotification(1, models.CategoryBooking)
	_, err := svc.CreateNotification(n)
	require.NoError(t, err)

	owner := uint(1)
	_, err = svc.MarkAsRead(n.ID, &owner)
	require.NoError(t, err)

	feed, err := svc.GetUserNotifications(1, models.NotificationQueryOptions{Category: models.CategoryReport})
	require.NoError(t, err)
	assert.Equal(t, int64(2), feed.Total)
	// Unread count ignores the category filter: two report rows are unread.
	assert.Equal(t, int64(2), feed.UnreadCount)

	// Most recent first.
	require.Len(t, feed.Notifications, 2)
	assert.True(t, feed.Notifications[0].CreatedAt.After(feed.Notifications[1].CreatedAt))
}

func TestArchivedNotificationStaysInListing(t *testing.T) {
	svc, _, _ := newTestService()

	n := personalNotification(1, models.CategoryReport)
	_, err := svc.CreateNotification(n)
	require.NoError(t, err)

	owner := uint(1)
	archived, err := svc.ArchiveNotification(n.ID, &owner)
	require.NoError(t, err)
	require.True(t, archived)

	// Archive is a soft flag: the row keeps appearing in the inbox.
	feed, err := svc.GetUserNotifications(1, models.NotificationQueryOptions{})
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, n.ID, feed.Notifications[0].ID)
	assert.True(t, feed.Notifications[0].IsArchived)
}

func TestGetUserPreferencesFallsBackToDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	prefs, err := svc.GetUserPreferences(99)
	require.NoError(t, err)
	assert.True(t, prefs.EmailNotifications)
	assert.False(t, prefs.SmsNotifications)
	assert.Equal(t, models.DigestImmediate, prefs.DigestFrequency)
}

func TestNotifySystemMessageRendersPassthrough(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.templates["system_message"] = &models.NotificationTemplate{
		ID:              uuid.New(),
		Name:            "System Message",
		TemplateKey:     "system_message",
		TitleTemplate:   "{{title}}",
		MessageTemplate: "{{message}}",
		Type:            models.NotificationTypeInfo,
		Category:        models.CategorySystem,
		Priority:        models.PriorityMedium,
		IsActive:        true,
	}
	userID := uint(3)

	created, err := svc.NotifySystemMessage(&userID, "KYC update", "Please re-upload your PAN card.")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "KYC update", created.Title)
	assert.Equal(t, "Please re-upload your PAN card.", created.Message)
	assert.Equal(t, models.CategorySystem, created.Category)
}

func TestNotificationEmailBodyIncludesAction(t *testing.T) {
	body := notificationEmailBody(&models.Notification{
		Message:   "Your report is ready.",
		ActionURL: "https://propvista.in/reports/abc",
	})
	assert.True(t, strings.Contains(body, "https://propvista.in/reports/abc"))
	assert.True(t, strings.Contains(body, "View details"))
}
