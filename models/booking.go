package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is a scheduled site visit for a property.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index"`
	PropertyID uuid.UUID `json:"property_id" gorm:"type:uuid;index"`
	VisitDate  time.Time `json:"visit_date"`
	TimeSlot   string    `json:"time_slot"`
	Status     string    `json:"status" gorm:"default:pending"`
	Notes      string    `json:"notes,omitempty" gorm:"type:varchar(1000)"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	VisitDate  time.Time `json:"visit_date" binding:"required"`
	TimeSlot   string    `json:"time_slot"`
	Notes      string    `json:"notes"`
}
