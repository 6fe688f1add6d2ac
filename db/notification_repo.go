package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

// visibleToUser is the clause deciding which rows a user may see: their own
// plus broadcasts (user_type 'all' with a null user id).
const visibleToUser = "(user_id = ? OR (user_type = ? AND user_id IS NULL))"

// NotificationRepository is the relational store behind the dispatcher
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateNotificationsBatch(notifications []*models.Notification) error
	GetUserNotifications(userID uint, opts models.NotificationQueryOptions) ([]models.Notification, int64, int64, error)
	MarkAsRead(notificationID uuid.UUID, userID *uint) (bool, error)
	MarkAllAsRead(userID uint) (int64, error)
	ArchiveNotification(notificationID uuid.UUID, userID *uint) (bool, error)
	MarkEmailSent(notificationID uuid.UUID) error
	CreateTemplate(template *models.NotificationTemplate) error
	GetTemplateByKey(templateKey string) (*models.NotificationTemplate, error)
	GetAllTemplates() ([]models.NotificationTemplate, error)
	GetPreferences(userID uint) (*models.NotificationPreferences, error)
	UpsertPreferences(userID uint, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error)
	GetUserEmail(userID uint) (string, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(notification *models.Notification) error {
	return r.DB.Create(notification).Error
}

// CreateNotificationsBatch inserts all rows in one statement so a failure
// leaves no partial batch behind.
func (r *notificationRepo) CreateNotificationsBatch(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.DB.Create(&notifications).Error
}

func (r *notificationRepo) GetUserNotifications(userID uint, opts models.NotificationQueryOptions) ([]models.Notification, int64, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	filtered := r.DB.Model(&models.Notification{}).
		Where(visibleToUser, userID, models.UserTypeAll)
	if opts.UnreadOnly {
		filtered = filtered.Where("is_read = ?", false)
	}
	if opts.Category != "" {
		filtered = filtered.Where("category = ?", opts.Category)
	}
	if opts.Priority != "" {
		filtered = filtered.Where("priority = ?", opts.Priority)
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, 0, errors.Wrap(err, "counting notifications")
	}

	var notifications []models.Notification
	err := filtered.
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "listing notifications")
	}

	// Unread count ignores the page filters; it is always "how many unread
	// rows are visible to this user".
	var unread int64
	err = r.DB.Model(&models.Notification{}).
		Where(visibleToUser, userID, models.UserTypeAll).
		Where("is_read = ?", false).
		Count(&unread).Error
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "counting unread notifications")
	}

	return notifications, total, unread, nil
}

func (r *notificationRepo) MarkAsRead(notificationID uuid.UUID, userID *uint) (bool, error) {
	now := time.Now()
	query := r.DB.Model(&models.Notification{}).Where("id = ?", notificationID)
	if userID != nil {
		query = query.Where(visibleToUser, *userID, models.UserTypeAll)
	}

	result := query.Updates(map[string]interface{}{
		"is_read":    true,
		"read_at":    now,
		"updated_at": now,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepo) MarkAllAsRead(userID uint) (int64, error) {
	now := time.Now()
	result := r.DB.Model(&models.Notification{}).
		Where(visibleToUser, userID, models.UserTypeAll).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *notificationRepo) ArchiveNotification(notificationID uuid.UUID, userID *uint) (bool, error) {
	query := r.DB.Model(&models.Notification{}).Where("id = ?", notificationID)
	if userID != nil {
		query = query.Where(visibleToUser, *userID, models.UserTypeAll)
	}

	result := query.Updates(map[string]interface{}{
		"is_archived": true,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *notificationRepo) MarkEmailSent(notificationID uuid.UUID) error {
	now := time.Now()
	return r.DB.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"email_sent":    true,
			"email_sent_at": now,
			"updated_at":    now,
		}).Error
}

func (r *notificationRepo) CreateTemplate(template *models.NotificationTemplate) error {
	return r.DB.Create(template).Error
}

// GetTemplateByKey resolves an active template; inactive templates are
// invisible to lookup.
func (r *notificationRepo) GetTemplateByKey(templateKey string) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.DB.Where("template_key = ? AND is_active = ?", templateKey, true).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *notificationRepo) GetAllTemplates() ([]models.NotificationTemplate, error) {
	var templates []models.NotificationTemplate
	if err := r.DB.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}
	return templates, nil
}

func (r *notificationRepo) GetPreferences(userID uint) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := r.DB.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpsertPreferences creates the row with permissive defaults on first write,
// then applies only the fields present in the request.
func (r *notificationRepo) UpsertPreferences(userID uint, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := r.DB.Where("user_id = ?", userID).First(&prefs).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		prefs = *models.DefaultNotificationPreferences(userID)
	}

	applyPreferenceUpdate(&prefs, req)

	if err := r.DB.Save(&prefs).Error; err != nil {
		return nil, errors.Wrap(err, "saving preferences")
	}
	return &prefs, nil
}

func applyPreferenceUpdate(prefs *models.NotificationPreferences, req *models.UpdatePreferencesRequest) {
	if req == nil {
		return
	}
	if req.EmailNotifications != nil {
		prefs.EmailNotifications = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		prefs.PushNotifications = *req.PushNotifications
	}
	if req.SmsNotifications != nil {
		prefs.SmsNotifications = *req.SmsNotifications
	}
	if req.PropertyUpdates != nil {
		prefs.PropertyUpdates = *req.PropertyUpdates
	}
	if req.ReportNotifications != nil {
		prefs.ReportNotifications = *req.ReportNotifications
	}
	if req.BookingNotifications != nil {
		prefs.BookingNotifications = *req.BookingNotifications
	}
	if req.PaymentNotifications != nil {
		prefs.PaymentNotifications = *req.PaymentNotifications
	}
	if req.LeadNotifications != nil {
		prefs.LeadNotifications = *req.LeadNotifications
	}
	if req.SystemNotifications != nil {
		prefs.SystemNotifications = *req.SystemNotifications
	}
	if req.PromotionalNotifications != nil {
		prefs.PromotionalNotifications = *req.PromotionalNotifications
	}
	if req.DigestFrequency != nil {
		prefs.DigestFrequency = *req.DigestFrequency
	}
	if req.QuietHoursStart != nil {
		prefs.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		prefs.QuietHoursEnd = *req.QuietHoursEnd
	}
}

func (r *notificationRepo) GetUserEmail(userID uint) (string, error) {
	var user models.User
	if err := r.DB.Select("email").Where("id = ?", userID).First(&user).Error; err != nil {
		return "", err
	}
	return user.Email, nil
}
