package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/models"
)

// ReportService manages paid property report orders and the payments recorded
// against them. Completion and payment both notify the order's owner.
type ReportService interface {
	OrderReport(userID uint, request *models.OrderReportRequest) (*models.ReportOrder, error)
	GetUserReportOrders(userID uint) ([]models.ReportOrder, error)
	GetReportOrder(id uuid.UUID) (*models.ReportOrder, error)
	MarkReportReady(id uuid.UUID, documentURL string) (*models.ReportOrder, error)
	RecordPayment(userID uint, request *models.RecordPaymentRequest) (*models.Payment, error)
	ConfirmPayment(paymentID uuid.UUID) (*models.Payment, error)
}

// report fees by type, INR
var reportFees = map[string]float64{
	"engineering": 4999,
	"valuation":   2999,
	"legal":       3999,
}

type reportService struct {
	Config              *config.Config
	reportRepo          db.ReportRepository
	propertyRepo        db.PropertyRepository
	notificationService NotificationService
	feed                FeedPublisher
}

func NewReportService(reportRepo db.ReportRepository, propertyRepo db.PropertyRepository, notificationService NotificationService, feed FeedPublisher, conf *config.Config) ReportService {
	return &reportService{
		Config:              conf,
		reportRepo:          reportRepo,
		propertyRepo:        propertyRepo,
		notificationService: notificationService,
		feed:                feed,
	}
}

func (s *reportService) OrderReport(userID uint, request *models.OrderReportRequest) (*models.ReportOrder, error) {
	amount, ok := reportFees[request.ReportType]
	if !ok {
		return nil, fmt.Errorf("unknown report type: %s", request.ReportType)
	}

	if _, err := s.propertyRepo.GetPropertyByID(request.PropertyID); err != nil {
		return nil, err
	}

	order := &models.ReportOrder{
		ID:         uuid.New(),
		UserID:     userID,
		PropertyID: request.PropertyID,
		ReportType: request.ReportType,
		Status:     models.ReportStatusPending,
		Amount:     amount,
		Notes:      request.Notes,
	}
	if err := s.reportRepo.CreateReportOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *reportService) GetUserReportOrders(userID uint) ([]models.ReportOrder, error) {
	return s.reportRepo.GetUserReportOrders(userID)
}

func (s *reportService) GetReportOrder(id uuid.UUID) (*models.ReportOrder, error) {
	return s.reportRepo.GetReportOrderByID(id)
}

// MarkReportReady finalizes the order and notifies the customer. The
// notification is best-effort: its failure does not undo the status change.
func (s *reportService) MarkReportReady(id uuid.UUID, documentURL string) (*models.ReportOrder, error) {
	order, err := s.reportRepo.MarkReportReady(id, documentURL)
	if err != nil {
		return nil, err
	}

	propertyTitle := "your property"
	if property, err := s.propertyRepo.GetPropertyByID(order.PropertyID); err == nil {
		propertyTitle = property.Title
	}

	notification, err := s.notificationService.NotifyReportReady(order.UserID, order, propertyTitle)
	if err != nil {
		log.Printf("report-ready notification for order %s failed: %v", order.ID, err)
	} else if s.feed != nil {
		s.feed.Publish(notification)
	}
	return order, nil
}

func (s *reportService) RecordPayment(userID uint, request *models.RecordPaymentRequest) (*models.Payment, error) {
	order, err := s.reportRepo.GetReportOrderByID(request.ReportOrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("report order %s does not belong to user %d", order.ID, userID)
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		UserID:        userID,
		ReportOrderID: order.ID,
		Amount:        request.Amount,
		Currency:      "INR",
		Method:        request.Method,
		Reference:     request.Reference,
		Status:        models.PaymentStatusInitiated,
	}
	if err := s.reportRepo.CreatePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmPayment marks an initiated payment as paid, moves the order along
// and notifies the payer.
func (s *reportService) ConfirmPayment(paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.reportRepo.MarkPaymentPaid(paymentID)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.UpdateReportStatus(payment.ReportOrderID, models.ReportStatusInProgress); err != nil {
		log.Printf("moving order %s to in_progress failed: %v", payment.ReportOrderID, err)
	}

	notification, err := s.notificationService.NotifyPaymentReceived(payment.UserID, payment)
	if err != nil {
		log.Printf("payment notification for %s failed: %v", payment.ID, err)
	} else if s.feed != nil {
		s.feed.Publish(notification)
	}
	return payment, nil
}
