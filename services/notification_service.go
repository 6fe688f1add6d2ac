package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

// Mailer is the transactional email collaborator behind the dispatcher.
// mailingservices.Mailgun satisfies it in production.
type Mailer interface {
	Configured() bool
	SendNotificationEmail(recipient, subject, htmlBody, textBody string) (string, error)
}

// FeedPublisher pushes freshly created notifications to live inbox
// connections. A nil publisher leaves the live feed off.
type FeedPublisher interface {
	Publish(notification *models.Notification)
}

// NotificationService creates, lists and mutates in-app notifications and
// decides, per user preference, whether each one also goes out as email.
type NotificationService interface {
	CreateNotification(notification *models.Notification) (*models.Notification, error)
	CreateBulkNotifications(notifications []*models.Notification) ([]*models.Notification, error)
	CreateNotificationFromTemplate(templateKey string, userID *uint, variables map[string]string) (*models.Notification, error)
	GetUserNotifications(userID uint, opts models.NotificationQueryOptions) (*models.NotificationFeed, error)
	MarkAsRead(notificationID uuid.UUID, userID *uint) (bool, error)
	MarkAllAsRead(userID uint) (int64, error)
	ArchiveNotification(notificationID uuid.UUID, userID *uint) (bool, error)
	CreateTemplate(template *models.NotificationTemplate) (*models.NotificationTemplate, error)
	GetTemplate(templateKey string) (*models.NotificationTemplate, error)
	GetAllTemplates() ([]models.NotificationTemplate, error)
	GetUserPreferences(userID uint) (*models.NotificationPreferences, error)
	UpdateUserPreferences(userID uint, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error)
	Broadcast(req *models.BroadcastRequest) (*models.Notification, error)
	NotifyReportReady(userID uint, order *models.ReportOrder, propertyTitle string) (*models.Notification, error)
	NotifyBookingConfirmed(userID uint, booking *models.Booking, propertyTitle string) (*models.Notification, error)
	NotifyPaymentReceived(userID uint, payment *models.Payment) (*models.Notification, error)
	NotifySystemMessage(userID *uint, title, message string) (*models.Notification, error)
}

type notificationService struct {
	Config           *config.Config
	notificationRepo db.NotificationRepository
	mailer           Mailer
}

func NewNotificationService(notificationRepo db.NotificationRepository, mailer Mailer, conf *config.Config) NotificationService {
	return &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
		mailer:           mailer,
	}
}

func (s *notificationService) CreateNotification(notification *models.Notification) (*models.Notification, error) {
	if err := s.prepareNotification(notification); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	// Email is best-effort; a failed send never undoes the row.
	if notification.UserID != nil {
		s.checkAndSendEmail(notification)
	}
	return notification, nil
}

// CreateBulkNotifications persists all rows in one batch, then evaluates the
// email decision per row. A failed batch insert means no rows and no emails.
func (s *notificationService) CreateBulkNotifications(notifications []*models.Notification) ([]*models.Notification, error) {
	for _, notification := range notifications {
		if err := s.prepareNotification(notification); err != nil {
			return nil, err
		}
	}

	if err := s.notificationRepo.CreateNotificationsBatch(notifications); err != nil {
		return nil, err
	}

	for _, notification := range notifications {
		if notification.UserID != nil {
			s.checkAndSendEmail(notification)
		}
	}
	return notifications, nil
}

// CreateNotificationFromTemplate expands an active template and persists the
// result. A missing or inactive key is a recoverable condition: it is logged
// and yields nil, nil.
func (s *notificationService) CreateNotificationFromTemplate(templateKey string, userID *uint, variables map[string]string) (*models.Notification, error) {
	template, err := s.notificationRepo.GetTemplateByKey(templateKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("notification template %q not found or inactive, skipping", templateKey)
			return nil, nil
		}
		return nil, err
	}

	notification := &models.Notification{
		UserID:            userID,
		Title:             renderTemplate(template.TitleTemplate, variables),
		Message:           renderTemplate(template.MessageTemplate, variables),
		Type:              template.Type,
		Category:          template.Category,
		Priority:          template.Priority,
		RelatedEntityType: variables["entityType"],
		RelatedEntityID:   variables["entityId"],
		ActionURL:         variables["actionUrl"],
		ActionText:        variables["actionText"],
	}
	if userID == nil {
		notification.UserType = models.UserTypeAll
	}

	if err := s.prepareNotification(notification); err != nil {
		return nil, err
	}
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, err
	}

	// requiresEmail templates attempt email regardless of the user's category
	// toggle; only templates without the flag stay silent on this path.
	if template.RequiresEmail && userID != nil &&
		template.EmailSubjectTemplate != "" && template.EmailBodyTemplate != "" {
		subject := renderTemplate(template.EmailSubjectTemplate, variables)
		body := renderTemplate(template.EmailBodyTemplate, variables)
		if s.emailUser(*userID, subject, body) {
			s.markEmailSent(notification)
		}
	}

	return notification, nil
}

func (s *notificationService) GetUserNotifications(userID uint, opts models.NotificationQueryOptions) (*models.NotificationFeed, error) {
	notifications, total, unread, err := s.notificationRepo.GetUserNotifications(userID, opts)
	if err != nil {
		return nil, err
	}
	return &models.NotificationFeed{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkAsRead(notificationID uuid.UUID, userID *uint) (bool, error) {
	return s.notificationRepo.MarkAsRead(notificationID, userID)
}

func (s *notificationService) MarkAllAsRead(userID uint) (int64, error) {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) ArchiveNotification(notificationID uuid.UUID, userID *uint) (bool, error) {
	return s.notificationRepo.ArchiveNotification(notificationID, userID)
}

func (s *notificationService) CreateTemplate(template *models.NotificationTemplate) (*models.NotificationTemplate, error) {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	if template.Type == "" {
		template.Type = models.NotificationTypeInfo
	}
	if template.Priority == "" {
		template.Priority = models.PriorityMedium
	}
	if !models.IsKnownCategory(template.Category) {
		return nil, fmt.Errorf("unknown notification category: %s", template.Category)
	}

	if err := s.notificationRepo.CreateTemplate(template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *notificationService) GetTemplate(templateKey string) (*models.NotificationTemplate, error) {
	return s.notificationRepo.GetTemplateByKey(templateKey)
}

func (s *notificationService) GetAllTemplates() ([]models.NotificationTemplate, error) {
	return s.notificationRepo.GetAllTemplates()
}

// GetUserPreferences never 404s: a user without a stored row gets the
// permissive defaults.
func (s *notificationService) GetUserPreferences(userID uint) (*models.NotificationPreferences, error) {
	prefs, err := s.notificationRepo.GetPreferences(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultNotificationPreferences(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

func (s *notificationService) UpdateUserPreferences(userID uint, req *models.UpdatePreferencesRequest) (*models.NotificationPreferences, error) {
	return s.notificationRepo.UpsertPreferences(userID, req)
}

// Broadcast creates one row every user sees.
func (s *notificationService) Broadcast(req *models.BroadcastRequest) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:     nil,
		UserType:   models.UserTypeAll,
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
		Category:   models.CategorySystem,
		Priority:   req.Priority,
		ActionURL:  req.ActionURL,
		ActionText: req.ActionText,
	}
	return s.CreateNotification(notification)
}

func (s *notificationService) NotifyReportReady(userID uint, order *models.ReportOrder, propertyTitle string) (*models.Notification, error) {
	return s.CreateNotificationFromTemplate("report_ready", &userID, map[string]string{
		"reportType":    order.ReportType,
		"propertyTitle": propertyTitle,
		"entityType":    "report",
		"entityId":      order.ID.String(),
		"actionUrl":     fmt.Sprintf("%s/reports/%s", s.Config.BaseUrl, order.ID),
		"actionText":    "Download Report",
	})
}

func (s *notificationService) NotifyBookingConfirmed(userID uint, booking *models.Booking, propertyTitle string) (*models.Notification, error) {
	return s.CreateNotificationFromTemplate("booking_confirmed", &userID, map[string]string{
		"propertyTitle": propertyTitle,
		"visitDate":     booking.VisitDate.Format("Mon, 02 Jan 2006"),
		"timeSlot":      booking.TimeSlot,
		"entityType":    "booking",
		"entityId":      booking.ID.String(),
		"actionUrl":     fmt.Sprintf("%s/bookings/%s", s.Config.BaseUrl, booking.ID),
		"actionText":    "View Booking",
	})
}

func (s *notificationService) NotifyPaymentReceived(userID uint, payment *models.Payment) (*models.Notification, error) {
	return s.CreateNotificationFromTemplate("payment_received", &userID, map[string]string{
		"amount":      fmt.Sprintf("%s %.2f", payment.Currency, payment.Amount),
		"description": fmt.Sprintf("report order %s", payment.ReportOrderID),
		"entityType":  "payment",
		"entityId":    payment.ID.String(),
		"actionUrl":   fmt.Sprintf("%s/orders/%s", s.Config.BaseUrl, payment.ReportOrderID),
		"actionText":  "View Order",
	})
}

func (s *notificationService) NotifySystemMessage(userID *uint, title, message string) (*models.Notification, error) {
	return s.CreateNotificationFromTemplate("system_message", userID, map[string]string{
		"title":   title,
		"message": message,
	})
}

// prepareNotification fills defaults and rejects shapes the store must never
// see: a nil user id outside a broadcast, or an entity tag outside the known
// set.
func (s *notificationService) prepareNotification(notification *models.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.UserType == "" {
		notification.UserType = models.UserTypeUser
	}
	if notification.Type == "" {
		notification.Type = models.NotificationTypeInfo
	}
	if notification.Priority == "" {
		notification.Priority = models.PriorityMedium
	}
	if notification.UserID == nil && notification.UserType != models.UserTypeAll {
		return fmt.Errorf("notification without a user id must target user type %q", models.UserTypeAll)
	}
	if !models.IsKnownEntityType(notification.RelatedEntityType) {
		return fmt.Errorf("unknown related entity type: %s", notification.RelatedEntityType)
	}
	return nil
}

// checkAndSendEmail applies the preference gate and fires the email when it
// passes. Failures on this path are logged, never propagated.
func (s *notificationService) checkAndSendEmail(notification *models.Notification) {
	if notification.UserID == nil {
		return
	}

	prefs, err := s.notificationRepo.GetPreferences(*notification.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("preference lookup failed for user %d: %v", *notification.UserID, err)
		return
	}
	// A missing row means fully permissive.
	if prefs != nil {
		if !prefs.EmailNotifications {
			return
		}
		if enabled, mapped := categoryEnabled(prefs, notification.Category); mapped && !enabled {
			return
		}
	}

	subject := notification.Title
	body := notificationEmailBody(notification)
	if s.emailUser(*notification.UserID, subject, body) {
		s.markEmailSent(notification)
	}
}

// emailUser resolves the recipient address and hands the message to the
// transport. Returns whether a send actually succeeded.
func (s *notificationService) emailUser(userID uint, subject, htmlBody string) bool {
	if !s.mailer.Configured() {
		log.Println("email transport not configured, skipping send")
		return false
	}

	recipient, err := s.notificationRepo.GetUserEmail(userID)
	if err != nil {
		log.Printf("could not resolve email for user %d: %v", userID, err)
		return false
	}

	if _, err := s.mailer.SendNotificationEmail(recipient, subject, htmlBody, ""); err != nil {
		log.Printf("sending notification email to %s failed: %v", recipient, err)
		return false
	}
	return true
}

// markEmailSent records a successful send on the row. A failure here leaves
// the flag stale; there is no reconciliation path.
func (s *notificationService) markEmailSent(notification *models.Notification) {
	if err := s.notificationRepo.MarkEmailSent(notification.ID); err != nil {
		log.Printf("marking notification %s email-sent failed: %v", notification.ID, err)
		return
	}
	now := time.Now()
	notification.EmailSent = true
	notification.EmailSentAt = &now
}

// renderTemplate substitutes {{name}} tokens from variables. Tokens without a
// matching variable stay in the output verbatim.
func renderTemplate(template string, variables map[string]string) string {
	result := template
	for name, value := range variables {
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
	}
	return result
}

// categoryEnabled maps a category to its preference toggle. The second return
// is false for categories with no mapping, which are never suppressed.
func categoryEnabled(prefs *models.NotificationPreferences, category string) (bool, bool) {
	switch category {
	case models.CategoryProperty:
		return prefs.PropertyUpdates, true
	case models.CategoryReport:
		return prefs.ReportNotifications, true
	case models.CategoryBooking:
		return prefs.BookingNotifications, true
	case models.CategoryPayment:
		return prefs.PaymentNotifications, true
	case models.CategoryLead:
		return prefs.LeadNotifications, true
	case models.CategorySystem:
		return prefs.SystemNotifications, true
	case models.CategoryPromotion:
		return prefs.PromotionalNotifications, true
	default:
		return true, false
	}
}

func notificationEmailBody(notification *models.Notification) string {
	var b strings.Builder
	b.WriteString("<p>Hello,</p>")
	b.WriteString(fmt.Sprintf("<p>%s</p>", notification.Message))
	if notification.ActionURL != "" {
		text := notification.ActionText
		if text == "" {
			text = "View details"
		}
		b.WriteString(fmt.Sprintf(`<p><a href="%s">%s</a></p>`, notification.ActionURL, text))
	}
	return b.String()
}
