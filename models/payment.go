package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusPaid      = "paid"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment records money received against a report order. The gateway itself
// is an external collaborator; only its outcome lands here.
type Payment struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uint       `json:"user_id" gorm:"index"`
	ReportOrderID uuid.UUID  `json:"report_order_id" gorm:"type:uuid;index"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency" gorm:"default:INR"`
	Method        string     `json:"method"`
	Reference     string     `json:"reference" gorm:"index"`
	Status        string     `json:"status" gorm:"default:initiated"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type RecordPaymentRequest struct {
	ReportOrderID uuid.UUID `json:"report_order_id" binding:"required"`
	Amount        float64   `json:"amount" binding:"required"`
	Method        string    `json:"method"`
	Reference     string    `json:"reference" binding:"required"`
}
