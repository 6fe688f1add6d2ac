package services

import (
	"log"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/db"
	"github.com/propvista/backend/models"
)

// LeadService captures sales enquiries from the public site and routes them
// to back-office staff. Assignment notifies the assignee.
type LeadService interface {
	CaptureLead(lead *models.Lead) (*models.Lead, error)
	GetLeads(status string) ([]models.Lead, error)
	AssignLead(id uuid.UUID, assignedTo uint) (*models.Lead, error)
	UpdateLeadStatus(id uuid.UUID, status string) error
}

type leadService struct {
	Config              *config.Config
	leadRepo            db.LeadRepository
	notificationService NotificationService
	feed                FeedPublisher
}

func NewLeadService(leadRepo db.LeadRepository, notificationService NotificationService, feed FeedPublisher, conf *config.Config) LeadService {
	return &leadService{
		Config:              conf,
		leadRepo:            leadRepo,
		notificationService: notificationService,
		feed:                feed,
	}
}

func (s *leadService) CaptureLead(lead *models.Lead) (*models.Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	lead.Status = models.LeadStatusNew

	if err := s.leadRepo.CreateLead(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) GetLeads(status string) ([]models.Lead, error) {
	return s.leadRepo.GetLeads(status)
}

func (s *leadService) AssignLead(id uuid.UUID, assignedTo uint) (*models.Lead, error) {
	lead, err := s.leadRepo.AssignLead(id, assignedTo)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:            &assignedTo,
		Title:             "New lead assigned to you",
		Message:           "Enquiry from " + lead.Fullname + " has been assigned to you.",
		Type:              models.NotificationTypeInfo,
		Category:          models.CategoryLead,
		Priority:          models.PriorityHigh,
		RelatedEntityType: "lead",
		RelatedEntityID:   lead.ID.String(),
	}
	created, err := s.notificationService.CreateNotification(notification)
	if err != nil {
		log.Printf("lead assignment notification for %s failed: %v", lead.ID, err)
	} else if s.feed != nil {
		s.feed.Publish(created)
	}
	return lead, nil
}

func (s *leadService) UpdateLeadStatus(id uuid.UUID, status string) error {
	return s.leadRepo.UpdateLeadStatus(id, status)
}
