package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	apiError "github.com/propvista/backend/errors"
	"github.com/propvista/backend/models"
	"github.com/propvista/backend/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetMailer sends password reset links. mailingservices.Mailgun satisfies it.
type ResetMailer interface {
	Configured() bool
	SendResetPassword(recipient, resetLink string) (string, error)
}

type AuthService interface {
	SignupUser(request *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(token, email string) *apiError.Error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
	GetAllUsers() ([]models.User, error)
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mail     ResetMailer
}

func NewAuthService(authRepo db.AuthRepository, mail ResetMailer, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mail:     mail,
	}
}

func (a *authService) SignupUser(user *models.User) (*models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := a.authRepo.IsEmailExist(user.Email); err != nil {
		return nil, apiError.New("email already exists", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hashing password failed: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashed)
	user.Password = ""
	user.IsEmailActive = true

	created, err := a.authRepo.CreateUser(user)
	if err != nil {
		return nil, apiError.GetUniqueContraintError(err)
	}
	return created, nil
}

func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	email := strings.ToLower(strings.TrimSpace(loginRequest.Email))

	user, err := a.authRepo.FindUserByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Printf("finding user by email failed: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if user.IsBlocked {
		return nil, apiError.New("account is blocked", http.StatusForbidden)
	}
	if !user.IsEmailActive {
		return nil, apiError.InActiveUserError
	}
	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, err := jwt.GenerateToken(user.ID, user.Email, a.Config.JWTSecret)
	if err != nil {
		log.Printf("generating access token failed: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:         user.ID,
			Fullname:   user.Fullname,
			Email:      user.Email,
			Telephone:  user.Telephone,
			RoleName:   user.Role.Name,
			ReraNumber: user.ReraNumber,
		},
		AccessToken: accessToken,
	}, nil
}

func (a *authService) LogoutUser(token, email string) *apiError.Error {
	err := a.authRepo.AddToBlackList(&models.Blacklist{Email: email, Token: token})
	if err != nil {
		log.Printf("blacklisting token failed: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	return a.authRepo.FindUserByID(userID)
}

func (a *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	return a.authRepo.EditUserProfile(userID, details)
}

func (a *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	user, err := a.authRepo.FindUserByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Do not leak which emails exist.
			log.Printf("password reset requested for unknown email %s", email)
			return nil
		}
		return apiError.ErrInternalServerError
	}

	token, err := jwt.GeneratePasswordResetToken(user.ID, a.Config.JWTSecret)
	if err != nil {
		log.Printf("generating reset token failed: %v", err)
		return apiError.ErrInternalServerError
	}

	if !a.mail.Configured() {
		log.Println("email transport not configured, cannot send reset link")
		return apiError.New("email service unavailable", http.StatusServiceUnavailable)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", a.Config.BaseUrl, token)
	if _, err := a.mail.SendResetPassword(user.Email, resetLink); err != nil {
		log.Printf("sending reset email to %s failed: %v", user.Email, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	if tokenType, _ := claims["type"].(string); tokenType != "password_reset" {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	idClaim, ok := claims["id"].(float64)
	if !ok {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	hashed, hashErr := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if hashErr != nil {
		log.Printf("hashing password failed: %v", hashErr)
		return apiError.ErrInternalServerError
	}

	if err := a.authRepo.ResetPassword(uint(idClaim), string(hashed)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apiError.ErrNotFound
		}
		log.Printf("resetting password failed: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) GetAllUsers() ([]models.User, error) {
	return a.authRepo.GetAllUsers()
}
