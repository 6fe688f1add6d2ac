package models

import (
	"time"

	"github.com/google/uuid"
)

// Target types for a notification row. A nil UserID is only valid for the
// broadcast target, which every user sees alongside their own rows.
const (
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
	UserTypeAll   = "all"
)

const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

const (
	CategoryProperty  = "property"
	CategoryReport    = "report"
	CategoryBooking   = "booking"
	CategoryPayment   = "payment"
	CategoryLead      = "lead"
	CategorySystem    = "system"
	CategoryPromotion = "promotion"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	DigestImmediate = "immediate"
	DigestDaily     = "daily"
	DigestWeekly    = "weekly"
	DigestNever     = "never"
)

// Notification is an in-app notification row. Rows are never deleted; archive
// is the terminal soft state.
type Notification struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            *uint      `json:"user_id" gorm:"index"`
	UserType          string     `json:"user_type" gorm:"default:user"`
	Title             string     `json:"title" binding:"required"`
	Message           string     `json:"message" gorm:"type:varchar(2000)" binding:"required"`
	Type              string     `json:"type" gorm:"default:info"`
	Category          string     `json:"category" gorm:"index" binding:"required"`
	Priority          string     `json:"priority" gorm:"default:medium"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   string     `json:"related_entity_id,omitempty"`
	ActionURL         string     `json:"action_url,omitempty"`
	ActionText        string     `json:"action_text,omitempty"`
	IsRead            bool       `json:"is_read" gorm:"default:false"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	IsArchived        bool       `json:"is_archived" gorm:"default:false"`
	EmailSent         bool       `json:"email_sent" gorm:"default:false"`
	EmailSentAt       *time.Time `json:"email_sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NotificationTemplate is an administrator-authored message template. Title,
// message and the optional email pair carry {{variable}} placeholders.
type NotificationTemplate struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name                 string    `json:"name" binding:"required"`
	TemplateKey          string    `json:"template_key" gorm:"unique;not null" binding:"required"`
	TitleTemplate        string    `json:"title_template" binding:"required"`
	MessageTemplate      string    `json:"message_template" gorm:"type:varchar(2000)" binding:"required"`
	EmailSubjectTemplate string    `json:"email_subject_template,omitempty"`
	EmailBodyTemplate    string    `json:"email_body_template,omitempty" gorm:"type:text"`
	RequiresEmail        bool      `json:"requires_email" gorm:"default:false"`
	Type                 string    `json:"type" gorm:"default:info"`
	Category             string    `json:"category" binding:"required"`
	Priority             string    `json:"priority" gorm:"default:medium"`
	IsActive             bool      `json:"is_active" gorm:"default:true"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NotificationPreferences is keyed 1:1 by user. The absence of a row means
// everything enabled with immediate delivery, so every toggle defaults
// permissive except SMS.
type NotificationPreferences struct {
	Model
	UserID                   uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	EmailNotifications       bool   `json:"email_notifications" gorm:"default:true"`
	PushNotifications        bool   `json:"push_notifications" gorm:"default:true"`
	SmsNotifications         bool   `json:"sms_notifications" gorm:"default:false"`
	PropertyUpdates          bool   `json:"property_updates" gorm:"default:true"`
	ReportNotifications      bool   `json:"report_notifications" gorm:"default:true"`
	BookingNotifications     bool   `json:"booking_notifications" gorm:"default:true"`
	PaymentNotifications     bool   `json:"payment_notifications" gorm:"default:true"`
	LeadNotifications        bool   `json:"lead_notifications" gorm:"default:true"`
	SystemNotifications      bool   `json:"system_notifications" gorm:"default:true"`
	PromotionalNotifications bool   `json:"promotional_notifications" gorm:"default:true"`
	DigestFrequency          string `json:"digest_frequency" gorm:"default:immediate"`
	QuietHoursStart          string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd            string `json:"quiet_hours_end,omitempty"`
}

// DefaultNotificationPreferences returns the permissive defaults applied when
// no row exists for a user.
func DefaultNotificationPreferences(userID uint) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                   userID,
		EmailNotifications:       true,
		PushNotifications:        true,
		SmsNotifications:         false,
		PropertyUpdates:          true,
		ReportNotifications:      true,
		BookingNotifications:     true,
		PaymentNotifications:     true,
		LeadNotifications:        true,
		SystemNotifications:      true,
		PromotionalNotifications: true,
		DigestFrequency:          DigestImmediate,
	}
}

// UpdatePreferencesRequest carries a partial preferences update; nil fields
// are left untouched by the upsert.
type UpdatePreferencesRequest struct {
	EmailNotifications       *bool   `json:"email_notifications"`
	PushNotifications        *bool   `json:"push_notifications"`
	SmsNotifications         *bool   `json:"sms_notifications"`
	PropertyUpdates          *bool   `json:"property_updates"`
	ReportNotifications      *bool   `json:"report_notifications"`
	BookingNotifications     *bool   `json:"booking_notifications"`
	PaymentNotifications     *bool   `json:"payment_notifications"`
	LeadNotifications        *bool   `json:"lead_notifications"`
	SystemNotifications      *bool   `json:"system_notifications"`
	PromotionalNotifications *bool   `json:"promotional_notifications"`
	DigestFrequency          *string `json:"digest_frequency"`
	QuietHoursStart          *string `json:"quiet_hours_start"`
	QuietHoursEnd            *string `json:"quiet_hours_end"`
}

// NotificationQueryOptions filters a user's notification feed.
type NotificationQueryOptions struct {
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
	UnreadOnly bool   `form:"unread_only"`
	Category   string `form:"category"`
	Priority   string `form:"priority"`
}

// NotificationFeed is one page of a user's feed. UnreadCount is scoped to the
// visibility rule only, regardless of the page filters.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
}

type BroadcastRequest struct {
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
	Type       string `json:"type"`
	Priority   string `json:"priority"`
	ActionURL  string `json:"action_url"`
	ActionText string `json:"action_text"`
}

var knownCategories = map[string]bool{
	CategoryProperty:  true,
	CategoryReport:    true,
	CategoryBooking:   true,
	CategoryPayment:   true,
	CategoryLead:      true,
	CategorySystem:    true,
	CategoryPromotion: true,
}

var knownEntityTypes = map[string]bool{
	"property": true,
	"report":   true,
	"booking":  true,
	"payment":  true,
	"lead":     true,
	"user":     true,
}

func IsKnownCategory(category string) bool {
	return knownCategories[category]
}

// IsKnownEntityType reports whether the loose entity tag belongs to the closed
// set of linkable entities. The empty tag is allowed (no linkage).
func IsKnownEntityType(entityType string) bool {
	if entityType == "" {
		return true
	}
	return knownEntityTypes[entityType]
}
