package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/services/jwt"
	"gorm.io/gorm"
)

func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		if s.AuthRepository.TokenInBlacklist(accessToken) {
			respondAndAbort(c, "access token is no longer valid", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}

		var userID uint
		switch v := accessClaims["id"].(type) {
		case float64:
			userID = uint(v)
		default:
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
				return
			}
			respondAndAbort(c, "unable to find user", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if user.IsBlocked {
			respondAndAbort(c, "account is blocked", http.StatusForbidden, nil, errs.New("forbidden", http.StatusForbidden))
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// AdminOnly must run after Authorize
func (s *Server) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}
		user, ok := value.(*models.User)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("unauthorized", http.StatusUnauthorized))
			return
		}
		if user.Role.Name != models.RoleAdmin && !user.AdminStatus {
			log.Printf("user %d denied admin route %s", user.ID, c.FullPath())
			respondAndAbort(c, "admin access required", http.StatusForbidden, nil, errs.New("forbidden", http.StatusForbidden))
			return
		}
		c.Next()
	}
}

// limitRateForPasswordReset keeps reset-link requests to a trickle per client
func limitRateForPasswordReset(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        clientKeyFunc,
		BeforeResponse: nil,
	})
}

// limitRateForLeadCapture throttles the public lead form
func limitRateForLeadCapture(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        clientKeyFunc,
		BeforeResponse: nil,
	})
}

func clientKeyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func newRateLimitStore(rate time.Duration, limit uint) ratelimit.Store {
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
}
