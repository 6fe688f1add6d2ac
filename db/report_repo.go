package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	CreateReportOrder(order *models.ReportOrder) error
	GetReportOrderByID(id uuid.UUID) (*models.ReportOrder, error)
	GetUserReportOrders(userID uint) ([]models.ReportOrder, error)
	MarkReportReady(id uuid.UUID, documentURL string) (*models.ReportOrder, error)
	UpdateReportStatus(id uuid.UUID, status string) error
	CreatePayment(payment *models.Payment) error
	GetPaymentByReference(reference string) (*models.Payment, error)
	MarkPaymentPaid(id uuid.UUID) (*models.Payment, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

func (r *reportRepo) CreateReportOrder(order *models.ReportOrder) error {
	return r.DB.Create(order).Error
}

func (r *reportRepo) GetReportOrderByID(id uuid.UUID) (*models.ReportOrder, error) {
	var order models.ReportOrder
	if err := r.DB.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *reportRepo) GetUserReportOrders(userID uint) ([]models.ReportOrder, error) {
	var orders []models.ReportOrder
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing report orders")
	}
	return orders, nil
}

// MarkReportReady flips a pending or in-progress order to ready and stamps the
// document. It returns the updated row so the caller can notify its owner.
func (r *reportRepo) MarkReportReady(id uuid.UUID, documentURL string) (*models.ReportOrder, error) {
	now := time.Now()
	result := r.DB.Model(&models.ReportOrder{}).
		Where("id = ? AND status IN ?", id, []string{models.ReportStatusPending, models.ReportStatusInProgress}).
		Updates(map[string]interface{}{
			"status":       models.ReportStatusReady,
			"document_url": documentURL,
			"ready_at":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetReportOrderByID(id)
}

func (r *reportRepo) UpdateReportStatus(id uuid.UUID, status string) error {
	result := r.DB.Model(&models.ReportOrder{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepo) CreatePayment(payment *models.Payment) error {
	return r.DB.Create(payment).Error
}

func (r *reportRepo) GetPaymentByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *reportRepo) MarkPaymentPaid(id uuid.UUID) (*models.Payment, error) {
	now := time.Now()
	result := r.DB.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusInitiated).
		Updates(map[string]interface{}{
			"status":  models.PaymentStatusPaid,
			"paid_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var payment models.Payment
	if err := r.DB.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
