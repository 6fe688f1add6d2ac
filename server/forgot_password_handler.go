package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/server/response"
)

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ForgotPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.AuthService.SendEmailForPasswordReset(&request); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		// Same response whether or not the email exists.
		response.JSON(c, "if the email is registered, a reset link has been sent", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var request models.ResetPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.AuthService.ResetPassword(&request, token); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "password reset successful", http.StatusOK, nil, nil)
	}
}
