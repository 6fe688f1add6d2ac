package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/mailingservices"
	"github.com/propvista/backend/server/response"
	"github.com/propvista/backend/services"
)

// Server wires every repository and service to the HTTP surface
type Server struct {
	Config *config.Config
	Mail   *mailingservices.Mailgun

	AuthRepository         db.AuthRepository
	NotificationRepository db.NotificationRepository

	AuthService         services.AuthService
	PropertyService     services.PropertyService
	ReportService       services.ReportService
	BookingService      services.BookingService
	LeadService         services.LeadService
	MediaService        services.MediaService
	NotificationService services.NotificationService
	PushService         services.PushService

	Hub *Hub
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to ten seconds.
func (s *Server) Start() {
	if s.Hub == nil {
		s.Hub = NewHub()
	}

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		log.Printf("server listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}

// decode binds the request body to v and runs binding validation
func decode(c *gin.Context, v interface{}) error {
	return c.ShouldBindJSON(v)
}

// respondAndAbort writes the error envelope and stops the handler chain
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}

// getTokenFromHeader extracts a bearer token from the Authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return authHeader
}

// currentUserID reads the authenticated user id set by Authorize()
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
