package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

const propertyPageSize = 20

type PropertyRepository interface {
	CreateProperty(property *models.Property) error
	GetPropertyByID(id uuid.UUID) (*models.Property, error)
	GetProperties(filter models.PropertyFilter) ([]models.Property, int64, error)
	UpdateProperty(property *models.Property) error
	UpdatePropertyStatus(id uuid.UUID, status string) error
	SetPropertyMedia(id uuid.UUID, feedURLs, thumbnailURLs string) error
	DeleteProperty(id uuid.UUID) error
}

type propertyRepo struct {
	DB *gorm.DB
}

func NewPropertyRepo(db *GormDB) PropertyRepository {
	return &propertyRepo{db.DB}
}

func (p *propertyRepo) CreateProperty(property *models.Property) error {
	return p.DB.Create(property).Error
}

func (p *propertyRepo) GetPropertyByID(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := p.DB.Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (p *propertyRepo) GetProperties(filter models.PropertyFilter) ([]models.Property, int64, error) {
	query := p.DB.Model(&models.Property{})
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting properties")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}

	var properties []models.Property
	err := query.
		Order("created_at DESC").
		Limit(propertyPageSize).
		Offset((page - 1) * propertyPageSize).
		Find(&properties).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "listing properties")
	}
	return properties, total, nil
}

func (p *propertyRepo) UpdateProperty(property *models.Property) error {
	return p.DB.Save(property).Error
}

func (p *propertyRepo) UpdatePropertyStatus(id uuid.UUID, status string) error {
	result := p.DB.Model(&models.Property{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *propertyRepo) SetPropertyMedia(id uuid.UUID, feedURLs, thumbnailURLs string) error {
	result := p.DB.Model(&models.Property{}).Where("id = ?", id).Updates(map[string]interface{}{
		"feed_urls":      feedURLs,
		"thumbnail_urls": thumbnailURLs,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (p *propertyRepo) DeleteProperty(id uuid.UUID) error {
	result := p.DB.Where("id = ?", id).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
