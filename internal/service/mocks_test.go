package service

import (
	"context"
	"testing"
	"time"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}

// AssertEqual checks if two values are equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %v but got %v", want, got)
	}
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// NewTestCampaign creates a stored campaign fixture
func NewTestCampaign() *models.Campaign {
	return &models.Campaign{
		ID:           1,
		Name:         "Test Campaign",
		SendDate:     time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00 AM",
		EndTime:      "05:00 PM",
		SendingDelay: 60,
		Message:      "Hello {recipient_name}!",
		SenderIDs:    []int{1, 2},
		DailyLimit:   1000,
		SentToday:    0,
		Status:       models.CampaignStatusScheduled,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// NewTestSender creates a stored sender fixture
func NewTestSender() *models.Sender {
	return &models.Sender{
		ID:         1,
		Email:      "sender@example.com",
		Name:       "Test Sender",
		DailyLimit: 100,
		SentToday:  0,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

// MockCampaignRepository mocks CampaignRepository
type MockCampaignRepository struct {
	CreateFunc             func(ctx context.Context, campaign *models.Campaign) error
	GetByIDFunc            func(ctx context.Context, id int) (*models.Campaign, error)
	ListFunc               func(ctx context.Context, filters repository.CampaignFilters) ([]*models.Campaign, int, error)
	ListSchedulableFunc    func(ctx context.Context) ([]*models.Campaign, error)
	UpdateFunc             func(ctx context.Context, campaign *models.Campaign) error
	UpdateStatusFunc       func(ctx context.Context, id int, status models.CampaignStatus) error
	IncrementSentTodayFunc func(ctx context.Context, id int) (int, error)
	ResetSentTodayFunc     func(ctx context.Context) error
	DeleteFunc             func(ctx context.Context, id int) error

	Calls map[string]int
}

func NewMockCampaignRepository() *MockCampaignRepository {
	return &MockCampaignRepository{Calls: make(map[string]int)}
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, campaign)
	}
	campaign.ID = 1
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	return nil
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestCampaign(), nil
}

func (m *MockCampaignRepository) List(ctx context.Context, filters repository.CampaignFilters) ([]*models.Campaign, int, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return []*models.Campaign{NewTestCampaign()}, 1, nil
}

func (m *MockCampaignRepository) ListSchedulable(ctx context.Context) ([]*models.Campaign, error) {
	m.Calls["ListSchedulable"]++
	if m.ListSchedulableFunc != nil {
		return m.ListSchedulableFunc(ctx)
	}
	return []*models.Campaign{NewTestCampaign()}, nil
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, campaign)
	}
	return nil
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error {
	m.Calls["UpdateStatus"]++
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *MockCampaignRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	m.Calls["IncrementSentToday"]++
	if m.IncrementSentTodayFunc != nil {
		return m.IncrementSentTodayFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockCampaignRepository) ResetSentToday(ctx context.Context) error {
	m.Calls["ResetSentToday"]++
	if m.ResetSentTodayFunc != nil {
		return m.ResetSentTodayFunc(ctx)
	}
	return nil
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockSenderRepository mocks SenderRepository
type MockSenderRepository struct {
	CreateFunc             func(ctx context.Context, sender *models.Sender) error
	GetByIDFunc            func(ctx context.Context, id int) (*models.Sender, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*models.Sender, error)
	ListFunc               func(ctx context.Context, limit, offset int) ([]*models.Sender, error)
	UpdateFunc             func(ctx context.Context, sender *models.Sender) error
	IncrementSentTodayFunc func(ctx context.Context, id int) (int, error)
	ResetSentTodayFunc     func(ctx context.Context) error
	DeleteFunc             func(ctx context.Context, id int) error

	Calls map[string]int
}

func NewMockSenderRepository() *MockSenderRepository {
	return &MockSenderRepository{Calls: make(map[string]int)}
}

func (m *MockSenderRepository) Create(ctx context.Context, sender *models.Sender) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sender)
	}
	sender.ID = 1
	sender.CreatedAt = time.Now()
	sender.UpdatedAt = time.Now()
	return nil
}

func (m *MockSenderRepository) GetByID(ctx context.Context, id int) (*models.Sender, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return NewTestSender(), nil
}

func (m *MockSenderRepository) GetByEmail(ctx context.Context, email string) (*models.Sender, error) {
	m.Calls["GetByEmail"]++
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *MockSenderRepository) List(ctx context.Context, limit, offset int) ([]*models.Sender, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.Sender{NewTestSender()}, nil
}

func (m *MockSenderRepository) Update(ctx context.Context, sender *models.Sender) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sender)
	}
	return nil
}

func (m *MockSenderRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	m.Calls["IncrementSentToday"]++
	if m.IncrementSentTodayFunc != nil {
		return m.IncrementSentTodayFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockSenderRepository) ResetSentToday(ctx context.Context) error {
	m.Calls["ResetSentToday"]++
	if m.ResetSentTodayFunc != nil {
		return m.ResetSentTodayFunc(ctx)
	}
	return nil
}

func (m *MockSenderRepository) Delete(ctx context.Context, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockScheduler mocks the DispatchScheduler capability
type MockScheduler struct {
	RegisterCampaignFunc func(ctx context.Context, campaign *models.Campaign) error

	Registered []*models.Campaign
	Cancelled  []int
}

func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

func (m *MockScheduler) RegisterCampaign(ctx context.Context, campaign *models.Campaign) error {
	if m.RegisterCampaignFunc != nil {
		return m.RegisterCampaignFunc(ctx, campaign)
	}
	m.Registered = append(m.Registered, campaign)
	return nil
}

func (m *MockScheduler) CancelCampaign(campaignID int) {
	m.Cancelled = append(m.Cancelled, campaignID)
}
