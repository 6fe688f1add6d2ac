package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/smsservices"
)

// BookingService schedules site visits. Confirmation notifies the visitor
// in-app plus, when their preferences allow, by SMS.
type BookingService interface {
	CreateBooking(userID uint, request *models.CreateBookingRequest) (*models.Booking, error)
	GetUserBookings(userID uint) ([]models.Booking, error)
	ConfirmBooking(id uuid.UUID) (*models.Booking, error)
	CancelBooking(id uuid.UUID, userID uint) (bool, error)
}

type bookingService struct {
	Config              *config.Config
	bookingRepo         db.BookingRepository
	propertyRepo        db.PropertyRepository
	authRepo            db.AuthRepository
	notificationRepo    db.NotificationRepository
	notificationService NotificationService
	smsClient           *smsservices.SNSClient
	feed                FeedPublisher
}

func NewBookingService(bookingRepo db.BookingRepository, propertyRepo db.PropertyRepository, authRepo db.AuthRepository, notificationRepo db.NotificationRepository, notificationService NotificationService, smsClient *smsservices.SNSClient, feed FeedPublisher, conf *config.Config) BookingService {
	return &bookingService{
		Config:              conf,
		bookingRepo:         bookingRepo,
		propertyRepo:        propertyRepo,
		authRepo:            authRepo,
		notificationRepo:    notificationRepo,
		notificationService: notificationService,
		smsClient:           smsClient,
		feed:                feed,
	}
}

func (s *bookingService) CreateBooking(userID uint, request *models.CreateBookingRequest) (*models.Booking, error) {
	if _, err := s.propertyRepo.GetPropertyByID(request.PropertyID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:         uuid.New(),
		UserID:     userID,
		PropertyID: request.PropertyID,
		VisitDate:  request.VisitDate,
		TimeSlot:   request.TimeSlot,
		Status:     models.BookingStatusPending,
		Notes:      request.Notes,
	}
	if err := s.bookingRepo.CreateBooking(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	return s.bookingRepo.GetUserBookings(userID)
}

func (s *bookingService) ConfirmBooking(id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.ConfirmBooking(id)
	if err != nil {
		return nil, err
	}

	propertyTitle := "the property"
	if property, err := s.propertyRepo.GetPropertyByID(booking.PropertyID); err == nil {
		propertyTitle = property.Title
	}

	notification, err := s.notificationService.NotifyBookingConfirmed(booking.UserID, booking, propertyTitle)
	if err != nil {
		log.Printf("booking notification for %s failed: %v", booking.ID, err)
	} else if s.feed != nil {
		s.feed.Publish(notification)
	}

	s.sendConfirmationSMS(booking, propertyTitle)
	return booking, nil
}

func (s *bookingService) CancelBooking(id uuid.UUID, userID uint) (bool, error) {
	return s.bookingRepo.CancelBooking(id, userID)
}

// sendConfirmationSMS texts the visitor, gated on their SMS preference. SMS
// is opt-in, so a missing preferences row means no text.
func (s *bookingService) sendConfirmationSMS(booking *models.Booking, propertyTitle string) {
	prefs, err := s.notificationRepo.GetPreferences(booking.UserID)
	if err != nil || !prefs.SmsNotifications {
		return
	}

	user, err := s.authRepo.FindUserByID(booking.UserID)
	if err != nil || user.Telephone == "" {
		return
	}

	message := fmt.Sprintf("PropVista: your site visit for %s on %s (%s) is confirmed.",
		propertyTitle, booking.VisitDate.Format("02 Jan"), booking.TimeSlot)
	if err := s.smsClient.SendSMS(context.Background(), user.Telephone, message); err != nil {
		log.Printf("booking confirmation SMS to %s failed: %v", user.Telephone, err)
	}
}
