package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusReady      = "ready"
	ReportStatusDelivered  = "delivered"
)

// ReportOrder is a paid order for an engineering/valuation/legal report on a
// property.
type ReportOrder struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index"`
	PropertyID  uuid.UUID  `json:"property_id" gorm:"type:uuid;index"`
	ReportType  string     `json:"report_type" binding:"required"` // engineering|valuation|legal
	Status      string     `json:"status" gorm:"default:pending"`
	Amount      float64    `json:"amount"`
	DocumentURL string     `json:"document_url,omitempty"`
	Notes       string     `json:"notes,omitempty" gorm:"type:varchar(1000)"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type OrderReportRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	ReportType string    `json:"report_type" binding:"required"`
	Notes      string    `json:"notes"`
}
