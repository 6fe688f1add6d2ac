package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusClosed    = "closed"
)

// Lead is a sales enquiry captured from the marketing site.
type Lead struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Fullname   string     `json:"fullname" binding:"required"`
	Email      string     `json:"email" binding:"required,email"`
	Phone      string     `json:"phone"`
	PropertyID *uuid.UUID `json:"property_id,omitempty" gorm:"type:uuid"`
	Source     string     `json:"source"`
	Message    string     `json:"message" gorm:"type:varchar(1000)"`
	Status     string     `json:"status" gorm:"default:new"`
	AssignedTo *uint      `json:"assigned_to,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type AssignLeadRequest struct {
	AssignedTo uint `json:"assigned_to" binding:"required"`
}
