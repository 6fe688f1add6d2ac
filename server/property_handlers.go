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

func (s *Server) handleListProperties() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.PropertyFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		properties, total, err := s.PropertyService.ListProperties(filter)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "properties retrieved", http.StatusOK, gin.H{
			"properties": properties,
			"total":      total,
		}, nil)
	}
}

func (s *Server) handleGetProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, err := uuid.Parse(c.Param("propertyID"))
		if err != nil {
			response.JSON(c, "invalid property id", http.StatusBadRequest, nil, err)
			return
		}

		property, err := s.PropertyService.GetProperty(propertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "property retrieved", http.StatusOK, property, nil)
	}
}

func (s *Server) handleCreateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var property models.Property
		if err := decode(c, &property); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		created, err := s.PropertyService.CreateProperty(&property, userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "property created", http.StatusCreated, created, nil)
	}
}

func (s *Server) handleUpdateProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, err := uuid.Parse(c.Param("propertyID"))
		if err != nil {
			response.JSON(c, "invalid property id", http.StatusBadRequest, nil, err)
			return
		}

		existing, err := s.PropertyService.GetProperty(propertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		var updated models.Property
		if err := decode(c, &updated); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}
		updated.ID = existing.ID
		updated.CreatedBy = existing.CreatedBy
		updated.CreatedAt = existing.CreatedAt

		if err := s.PropertyService.UpdateProperty(&updated); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "property updated", http.StatusOK, updated, nil)
	}
}

func (s *Server) handleUpdatePropertyStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, err := uuid.Parse(c.Param("propertyID"))
		if err != nil {
			response.JSON(c, "invalid property id", http.StatusBadRequest, nil, err)
			return
		}

		var body struct {
			Status string `json:"status" binding:"required,oneof=available under_offer sold"`
		}
		if err := decode(c, &body); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.PropertyService.UpdatePropertyStatus(propertyID, body.Status); err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "property status updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUploadPropertyPhotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, err := uuid.Parse(c.Param("propertyID"))
		if err != nil {
			response.JSON(c, "invalid property id", http.StatusBadRequest, nil, err)
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}
		files := form.File["photos"]
		if len(files) == 0 {
			response.JSON(c, "no photos supplied", http.StatusBadRequest, nil, errors.ErrBadRequest)
			return
		}

		feedURLs, thumbnailURLs, err := s.MediaService.ProcessPropertyPhotos(c.Request.Context(), propertyID, files)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "photos uploaded", http.StatusOK, gin.H{
			"feed_urls":      feedURLs,
			"thumbnail_urls": thumbnailURLs,
		}, nil)
	}
}

func (s *Server) handleDeleteProperty() gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, err := uuid.Parse(c.Param("propertyID"))
		if err != nil {
			response.JSON(c, "invalid property id", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.PropertyService.DeleteProperty(propertyID); err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "property not found", http.StatusNotFound, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "property deleted", http.StatusOK, nil, nil)
	}
}
