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

func (s *Server) handleOrderReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.OrderReportRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		order, err := s.ReportService.OrderReport(userID, &request)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		response.JSON(c, "report ordered", http.StatusCreated, order, nil)
	}
}

func (s *Server) handleGetMyReportOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		orders, err := s.ReportService.GetUserReportOrders(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "report orders retrieved", http.StatusOK, orders, nil)
	}
}

func (s *Server) handleGetReportOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		orderID, err := uuid.Parse(c.Param("orderID"))
		if err != nil {
			response.JSON(c, "invalid order id", http.StatusBadRequest, nil, err)
			return
		}

		order, err := s.ReportService.GetReportOrder(orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "order not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		if order.UserID != userID {
			response.JSON(c, "order not found", http.StatusNotFound, nil, errors.ErrNotFound)
			return
		}
		response.JSON(c, "report order retrieved", http.StatusOK, order, nil)
	}
}

func (s *Server) handleMarkReportReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("orderID"))
		if err != nil {
			response.JSON(c, "invalid order id", http.StatusBadRequest, nil, err)
			return
		}

		var body struct {
			DocumentURL string `json:"document_url" binding:"required,url"`
		}
		if err := decode(c, &body); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		order, err := s.ReportService.MarkReportReady(orderID, body.DocumentURL)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "order not found or already finalized", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "report marked ready", http.StatusOK, order, nil)
	}
}

func (s *Server) handleRecordPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.RecordPaymentRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		payment, err := s.ReportService.RecordPayment(userID, &request)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "report order not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		response.JSON(c, "payment recorded", http.StatusCreated, payment, nil)
	}
}

func (s *Server) handleConfirmPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, err := uuid.Parse(c.Param("paymentID"))
		if err != nil {
			response.JSON(c, "invalid payment id", http.StatusBadRequest, nil, err)
			return
		}

		payment, err := s.ReportService.ConfirmPayment(paymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "payment not found or already settled", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "payment confirmed", http.StatusOK, payment, nil)
	}
}
