package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/server/response"
	"gorm.io/gorm"
)

func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var opts models.NotificationQueryOptions
		if err := c.ShouldBindQuery(&opts); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		feed, err := s.NotificationService.GetUserNotifications(userID, opts)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "notifications retrieved", http.StatusOK, feed, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		notificationID, err := uuid.Parse(c.Param("notificationID"))
		if err != nil {
			response.JSON(c, "invalid notification id", http.StatusBadRequest, nil, err)
			return
		}

		updated, err := s.NotificationService.MarkAsRead(notificationID, &userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		if !updated {
			response.JSON(c, "notification not found", http.StatusNotFound, nil, errors.ErrNotFound)
			return
		}
		response.JSON(c, "notification marked as read", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleMarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		count, err := s.NotificationService.MarkAllAsRead(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "notifications marked as read", http.StatusOK, gin.H{"updated": count}, nil)
	}
}

func (s *Server) handleArchiveNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		notificationID, err := uuid.Parse(c.Param("notificationID"))
		if err != nil {
			response.JSON(c, "invalid notification id", http.StatusBadRequest, nil, err)
			return
		}

		archived, err := s.NotificationService.ArchiveNotification(notificationID, &userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		if !archived {
			response.JSON(c, "notification not found", http.StatusNotFound, nil, errors.ErrNotFound)
			return
		}
		response.JSON(c, "notification archived", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetNotificationPreferences() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		prefs, err := s.NotificationService.GetUserPreferences(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "preferences retrieved", http.StatusOK, prefs, nil)
	}
}

func (s *Server) handleUpdateNotificationPreferences() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var request models.UpdatePreferencesRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		prefs, err := s.NotificationService.UpdateUserPreferences(userID, &request)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "preferences updated", http.StatusOK, prefs, nil)
	}
}

func (s *Server) handleGetTemplates() gin.HandlerFunc {
	return func(c *gin.Context) {
		templates, err := s.NotificationService.GetAllTemplates()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "templates retrieved", http.StatusOK, templates, nil)
	}
}

func (s *Server) handleGetTemplate() gin.HandlerFunc {
	return func(c *gin.Context) {
		template, err := s.NotificationService.GetTemplate(c.Param("templateKey"))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				response.JSON(c, "", errors.ErrNotFound.Status, nil, errors.ErrNotFound)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "template retrieved", http.StatusOK, template, nil)
	}
}

func (s *Server) handleCreateTemplate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var template models.NotificationTemplate
		if err := decode(c, &template); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}
		template.IsActive = true

		created, err := s.NotificationService.CreateTemplate(&template)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.GetUniqueContraintError(err))
			return
		}
		response.JSON(c, "template created", http.StatusCreated, created, nil)
	}
}

// handleBroadcast creates a site-wide notification. Urgent broadcasts also go
// out over push to every registered device.
func (s *Server) handleBroadcast() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.BroadcastRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		created, err := s.NotificationService.Broadcast(&request)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		s.Hub.Publish(created)

		if created.Priority == models.PriorityUrgent {
			tokens, err := s.AuthRepository.GetAllDeviceTokens()
			if err != nil {
				log.Printf("listing device tokens for urgent broadcast failed: %v", err)
			} else {
				sent := s.PushService.SendPushToMany(context.Background(), tokens, created.Title, created.Message)
				log.Printf("urgent broadcast %s pushed to %d devices", created.ID, sent)
			}
		}

		response.JSON(c, "broadcast created", http.StatusCreated, created, nil)
	}
}
