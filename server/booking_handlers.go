package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/server/response"
	"gorm.io/gorm"
)

func (s *Server) handleCreateBooking() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.CreateBookingRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		booking, err := s.BookingService.CreateBooking(userID, &request)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "booking created", http.StatusCreated, booking, nil)
	}
}

func (s *Server) handleGetMyBookings() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		bookings, err := s.BookingService.GetUserBookings(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "bookings retrieved", http.StatusOK, bookings, nil)
	}
}

func (s *Server) handleConfirmBooking() gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := uuid.Parse(c.Param("bookingID"))
		if err != nil {
			response.JSON(c, "invalid booking id", http.StatusBadRequest, nil, err)
			return
		}

		booking, err := s.BookingService.ConfirmBooking(bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "booking not found or not pending", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "booking confirmed", http.StatusOK, booking, nil)
	}
}

func (s *Server) handleCancelBooking() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		bookingID, err := uuid.Parse(c.Param("bookingID"))
		if err != nil {
			response.JSON(c, "invalid booking id", http.StatusBadRequest, nil, err)
			return
		}

		cancelled, err := s.BookingService.CancelBooking(bookingID, userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		if !cancelled {
			response.JSON(c, "booking not found or already closed", http.StatusNotFound, nil, errors.ErrNotFound)
			return
		}
		response.JSON(c, "booking cancelled", http.StatusOK, nil, nil)
	}
}
