package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propvista/backend/config"
	"github.com/propvista/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFeed struct {
	published []*models.Notification
}

func (f *fakeFeed) Publish(notification *models.Notification) {
	f.published = append(f.published, notification)
}

type fakeLeadRepo struct {
	leads map[uuid.UUID]*models.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uuid.UUID]*models.Lead)}
}

func (f *fakeLeadRepo) CreateLead(lead *models.Lead) error {
	f.leads[lead.ID] = lead
	return nil
}

func (f *fakeLeadRepo) GetLeadByID(id uuid.UUID) (*models.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lead, nil
}

func (f *fakeLeadRepo) GetLeads(status string) ([]models.Lead, error) {
	var out []models.Lead
	for _, lead := range f.leads {
		if status == "" || lead.Status == status {
			out = append(out, *lead)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) AssignLead(id uuid.UUID, assignedTo uint) (*models.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	lead.AssignedTo = &assignedTo
	lead.Status = models.LeadStatusContacted
	return lead, nil
}

func (f *fakeLeadRepo) UpdateLeadStatus(id uuid.UUID, status string) error {
	lead, ok := f.leads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lead.Status = status
	return nil
}

func TestAssignLeadPublishesCreatedNotificationToFeed(t *testing.T) {
	notificationService, notificationRepo, _ := newTestService()
	leadRepo := newFakeLeadRepo()
	feed := &fakeFeed{}
	svc := NewLeadService(leadRepo, notificationService, feed, &config.Config{})

	lead := &models.Lead{Fullname: "Rohan Mehta", Email: "rohan@example.com"}
	captured, err := svc.CaptureLead(lead)
	require.NoError(t, err)

	assignee := uint(42)
	_, err = svc.AssignLead(captured.ID, assignee)
	require.NoError(t, err)

	require.Len(t, feed.published, 1)
	require.Len(t, notificationRepo.notifications, 1)
	// The feed receives the row that was just persisted, not a re-queried one.
	assert.Equal(t, notificationRepo.notifications[0].ID, feed.published[0].ID)
	assert.Equal(t, &assignee, feed.published[0].UserID)
	assert.Equal(t, models.CategoryLead, feed.published[0].Category)
	assert.Equal(t, captured.ID.String(), feed.published[0].RelatedEntityID)
}

func TestAssignLeadMissingLeadPublishesNothing(t *testing.T) {
	notificationService, _, _ := newTestService()
	feed := &fakeFeed{}
	svc := NewLeadService(newFakeLeadRepo(), notificationService, feed, &config.Config{})

	_, err := svc.AssignLead(uuid.New(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, feed.published)
}
