package db

import (
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	ResetPassword(userID uint, newHashedPassword string) error
	AddToBlackList(blacklist *models.Blacklist) error
	TokenInBlacklist(token string) bool
	FindRoleByName(name string) (*models.Role, error)
	GetUserRoleByUserID(userID uint) (*models.Role, error)
	GetAllUsers() ([]models.User, error)
	GetAllDeviceTokens() ([]string, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	if user.RoleID == uuid.Nil {
		var defaultRole models.Role
		err := a.DB.Where("name = ?", models.RoleUser).First(&defaultRole).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.Wrap(err, "resolving default role")
			}
			defaultRole = models.Role{ID: uuid.New(), Name: models.RoleUser}
			if err := a.DB.Create(&defaultRole).Error; err != nil {
				return nil, errors.Wrap(err, "creating default role")
			}
		}
		user.RoleID = defaultRole.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		log.Printf("CreateUser error: %v", err)
		return nil, err
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	updates := map[string]interface{}{}
	if details.Fullname != "" {
		updates["fullname"] = details.Fullname
	}
	if details.Telephone != "" {
		updates["telephone"] = details.Telephone
	}
	if details.DeviceToken != "" {
		updates["device_token"] = details.DeviceToken
	}
	if len(updates) == 0 {
		return nil
	}

	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) ResetPassword(userID uint, newHashedPassword string) error {
	result := a.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_password", newHashedPassword)
	if result.Error != nil {
		return errors.Wrap(result.Error, "updating password")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) TokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("TokenInBlacklist error: %v", err)
		return false
	}
	return count > 0
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) GetUserRoleByUserID(userID uint) (*models.Role, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user.Role, nil
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := a.DB.Preload("Role").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	return users, nil
}

// GetAllDeviceTokens returns the registered push tokens of every user that has
// one, for urgent broadcast fan-out.
func (a *authRepo) GetAllDeviceTokens() ([]string, error) {
	var tokens []string
	err := a.DB.Model(&models.User{}).
		Where("device_token <> ''").
		Pluck("device_token", &tokens).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing device tokens")
	}
	return tokens, nil
}
