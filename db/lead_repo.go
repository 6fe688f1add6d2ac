package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/propvista/backend/models"
	"gorm.io/gorm"
)

type LeadRepository interface {
	CreateLead(lead *models.Lead) error
	GetLeadByID(id uuid.UUID) (*models.Lead, error)
	GetLeads(status string) ([]models.Lead, error)
	AssignLead(id uuid.UUID, assignedTo uint) (*models.Lead, error)
	UpdateLeadStatus(id uuid.UUID, status string) error
}

type leadRepo struct {
	DB *gorm.DB
}

func NewLeadRepo(db *GormDB) LeadRepository {
	return &leadRepo{db.DB}
}

func (l *leadRepo) CreateLead(lead *models.Lead) error {
	return l.DB.Create(lead).Error
}

func (l *leadRepo) GetLeadByID(id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := l.DB.Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (l *leadRepo) GetLeads(status string) ([]models.Lead, error) {
	query := l.DB.Model(&models.Lead{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := query.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, errors.Wrap(err, "listing leads")
	}
	return leads, nil
}

func (l *leadRepo) AssignLead(id uuid.UUID, assignedTo uint) (*models.Lead, error) {
	result := l.DB.Model(&models.Lead{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_to": assignedTo,
			"status":      models.LeadStatusContacted,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return l.GetLeadByID(id)
}

func (l *leadRepo) UpdateLeadStatus(id uuid.UUID, status string) error {
	result := l.DB.Model(&models.Lead{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
