package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		createdUser, err := s.AuthService.SignupUser(&user)
		if err != nil {
			if apiErr, ok := err.(*errors.Error); ok {
				response.JSON(c, "", apiErr.Status, nil, apiErr)
				return
			}
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}

		response.JSON(c, "signup successful", http.StatusCreated, models.UserResponse{
			ID:         createdUser.ID,
			Fullname:   createdUser.Fullname,
			Email:      createdUser.Email,
			Telephone:  createdUser.Telephone,
			ReraNumber: createdUser.ReraNumber,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue, exists := c.Get("access_token")
		accessToken, ok := tokenValue.(string)
		if !exists || !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		user := c.MustGet("user").(*models.User)
		if err := s.AuthService.LogoutUser(accessToken, user.Email); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		user, err := s.AuthService.GetUserProfile(userID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "profile retrieved", http.StatusOK, models.UserResponse{
			ID:         user.ID,
			Fullname:   user.Fullname,
			Email:      user.Email,
			Telephone:  user.Telephone,
			RoleName:   user.Role.Name,
			ReraNumber: user.ReraNumber,
		}, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		var details models.EditProfileRequest
		if err := decode(c, &details); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		if err := s.AuthService.EditUserProfile(userID, &details); err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "profile updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.AuthService.GetAllUsers()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "users retrieved", http.StatusOK, users, nil)
	}
}
