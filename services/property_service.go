package services

import (
	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/models"
)

type PropertyService interface {
	CreateProperty(property *models.Property, createdBy uint) (*models.Property, error)
	GetProperty(id uuid.UUID) (*models.Property, error)
	ListProperties(filter models.PropertyFilter) ([]models.Property, int64, error)
	UpdateProperty(property *models.Property) error
	UpdatePropertyStatus(id uuid.UUID, status string) error
	DeleteProperty(id uuid.UUID) error
}

type propertyService struct {
	Config       *config.Config
	propertyRepo db.PropertyRepository
}

func NewPropertyService(propertyRepo db.PropertyRepository, conf *config.Config) PropertyService {
	return &propertyService{
		Config:       conf,
		propertyRepo: propertyRepo,
	}
}

func (s *propertyService) CreateProperty(property *models.Property, createdBy uint) (*models.Property, error) {
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	if property.Status == "" {
		property.Status = models.PropertyStatusAvailable
	}
	property.CreatedBy = createdBy

	if err := s.propertyRepo.CreateProperty(property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) GetProperty(id uuid.UUID) (*models.Property, error) {
	return s.propertyRepo.GetPropertyByID(id)
}

func (s *propertyService) ListProperties(filter models.PropertyFilter) ([]models.Property, int64, error) {
	return s.propertyRepo.GetProperties(filter)
}

func (s *propertyService) UpdateProperty(property *models.Property) error {
	return s.propertyRepo.UpdateProperty(property)
}

func (s *propertyService) UpdatePropertyStatus(id uuid.UUID, status string) error {
	return s.propertyRepo.UpdatePropertyStatus(id, status)
}

func (s *propertyService) DeleteProperty(id uuid.UUID) error {
	return s.propertyRepo.DeleteProperty(id)
}
