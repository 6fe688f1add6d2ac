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

func (s *Server) handleCaptureLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lead models.Lead
		if err := decode(c, &lead); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		created, err := s.LeadService.CaptureLead(&lead)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "thanks, our team will reach out shortly", http.StatusCreated, gin.H{"id": created.ID}, nil)
	}
}

func (s *Server) handleGetLeads() gin.HandlerFunc {
	return func(c *gin.Context) {
		leads, err := s.LeadService.GetLeads(c.Query("status"))
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "leads retrieved", http.StatusOK, leads, nil)
	}
}

func (s *Server) handleAssignLead() gin.HandlerFunc {
	return func(c *gin.Context) {
		leadID, err := uuid.Parse(c.Param("leadID"))
		if err != nil {
			response.JSON(c, "invalid lead id", http.StatusBadRequest, nil, err)
			return
		}

		var request models.AssignLeadRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		lead, err := s.LeadService.AssignLead(leadID, request.AssignedTo)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "lead not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "lead assigned", http.StatusOK, lead, nil)
	}
}

func (s *Server) handleUpdateLeadStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		leadID, err := uuid.Parse(c.Param("leadID"))
		if err != nil {
			response.JSON(c, "invalid lead id", http.StatusBadRequest, nil, err)
			return
		}

		var body struct {
			Status string `json:"status" binding:"required,oneof=new contacted qualified closed"`
		}
		if err := decode(c, &body); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.LeadService.UpdateLeadStatus(leadID, body.Status); err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "lead not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "lead status updated", http.StatusOK, nil, nil)
	}
}
