package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.Config.AccessControlAllowOrigin != "" {
		corsConfig.AllowOrigins = []string{s.Config.AccessControlAllowOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = 32 << 20

	s.defineRoutes(r)
	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	resetStore := newRateLimitStore(time.Minute, 3)
	leadStore := newRateLimitStore(time.Minute, 5)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/password/forgot", limitRateForPasswordReset(resetStore), s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())

	apirouter.GET("/properties", s.handleListProperties())
	apirouter.GET("/properties/:propertyID", s.handleGetProperty())
	apirouter.POST("/leads", limitRateForLeadCapture(leadStore), s.handleCaptureLead())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditUserProfile())

	authorized.POST("/reports", s.handleOrderReport())
	authorized.GET("/reports", s.handleGetMyReportOrders())
	authorized.GET("/reports/:orderID", s.handleGetReportOrder())
	authorized.POST("/payments", s.handleRecordPayment())

	authorized.POST("/bookings", s.handleCreateBooking())
	authorized.GET("/bookings", s.handleGetMyBookings())
	authorized.PUT("/bookings/:bookingID/cancel", s.handleCancelBooking())

	authorized.GET("/notifications", s.handleGetNotifications())
	authorized.PUT("/notifications/read-all", s.handleMarkAllNotificationsRead())
	authorized.PUT("/notifications/:notificationID/read", s.handleMarkNotificationRead())
	authorized.PUT("/notifications/:notificationID/archive", s.handleArchiveNotification())
	authorized.GET("/notifications/preferences", s.handleGetNotificationPreferences())
	authorized.PUT("/notifications/preferences", s.handleUpdateNotificationPreferences())
	authorized.GET("/notifications/feed", s.handleNotificationFeed())

	admin := authorized.Group("/admin")
	admin.Use(s.AdminOnly())
	admin.GET("/users", s.handleGetAllUsers())
	admin.POST("/properties", s.handleCreateProperty())
	admin.PUT("/properties/:propertyID", s.handleUpdateProperty())
	admin.PUT("/properties/:propertyID/status", s.handleUpdatePropertyStatus())
	admin.POST("/properties/:propertyID/photos", s.handleUploadPropertyPhotos())
	admin.DELETE("/properties/:propertyID", s.handleDeleteProperty())
	admin.PUT("/reports/:orderID/ready", s.handleMarkReportReady())
	admin.PUT("/payments/:paymentID/confirm", s.handleConfirmPayment())
	admin.PUT("/bookings/:bookingID/confirm", s.handleConfirmBooking())
	admin.GET("/leads", s.handleGetLeads())
	admin.PUT("/leads/:leadID/assign", s.handleAssignLead())
	admin.PUT("/leads/:leadID/status", s.handleUpdateLeadStatus())
	admin.GET("/notification-templates", s.handleGetTemplates())
	admin.GET("/notification-templates/:templateKey", s.handleGetTemplate())
	admin.POST("/notification-templates", s.handleCreateTemplate())
	admin.POST("/notifications/broadcast", s.handleBroadcast())
}
