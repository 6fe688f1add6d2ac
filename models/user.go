package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a customer or back-office user of the platform
type User struct {
	Model
	Fullname       string    `json:"fullname" binding:"required,min=2"`
	Email          string    `json:"email" gorm:"unique;not null" binding:"required,email"`
	Telephone      string    `json:"telephone" gorm:"default:null" binding:"required"`
	Password       string    `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string    `json:"-"`
	IsEmailActive  bool      `json:"-"`
	IsBlocked      bool      `json:"is_blocked" gorm:"default:false"`
	AdminStatus    bool      `json:"is_admin" gorm:"default:false"`
	DeviceToken    string    `json:"-"`
	ReraNumber     string    `json:"rera_number,omitempty"`
	RoleID         uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role           Role      `gorm:"foreignKey:RoleID" json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID         uint   `json:"id"`
	Fullname   string `json:"fullname"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	RoleName   string `json:"role_name"`
	ReraNumber string `json:"rera_number,omitempty"`
}

type LoginResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type EditProfileRequest struct {
	Fullname    string `json:"fullname"`
	Telephone   string `json:"telephone"`
	DeviceToken string `json:"device_token"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	err := passwordValidator.Validate(password)
	return err
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}
