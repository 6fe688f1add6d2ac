package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

type BookingRepository interface {
	CreateBooking(booking *models.Booking) error
	GetBookingByID(id uuid.UUID) (*models.Booking, error)
	GetUserBookings(userID uint) ([]models.Booking, error)
	ConfirmBooking(id uuid.UUID) (*models.Booking, error)
	CancelBooking(id uuid.UUID, userID uint) (bool, error)
}

type bookingRepo struct {
	DB *gorm.DB
}

func NewBookingRepo(db *GormDB) BookingRepository {
	return &bookingRepo{db.DB}
}

func (b *bookingRepo) CreateBooking(booking *models.Booking) error {
	return b.DB.Create(booking).Error
}

func (b *bookingRepo) GetBookingByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := b.DB.Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (b *bookingRepo) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := b.DB.Where("user_id = ?", userID).Order("visit_date ASC").Find(&bookings).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing bookings")
	}
	return bookings, nil
}

// ConfirmBooking only moves a pending booking to confirmed; terminal states
// stay put.
func (b *bookingRepo) ConfirmBooking(id uuid.UUID) (*models.Booking, error) {
	result := b.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, models.BookingStatusPending).
		Update("status", models.BookingStatusConfirmed)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return b.GetBookingByID(id)
}

func (b *bookingRepo) CancelBooking(id uuid.UUID, userID uint) (bool, error) {
	result := b.DB.Model(&models.Booking{}).
		Where("id = ? AND user_id = ? AND status IN ?", id, userID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Update("status", models.BookingStatusCancelled)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
