package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/queue"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// MockCampaignRepository is an in-memory CampaignRepository. Default
// behavior operates on the internal store; individual methods can be
// overridden via the *Func fields.
type MockCampaignRepository struct {
	GetByIDFunc            func(ctx context.Context, id int) (*models.Campaign, error)
	UpdateStatusFunc       func(ctx context.Context, id int, status models.CampaignStatus) error
	IncrementSentTodayFunc func(ctx context.Context, id int) (int, error)

	mu        sync.Mutex
	campaigns map[int]*models.Campaign
	nextID    int
	Calls     map[string]int
}

func NewMockCampaignRepository() *MockCampaignRepository {
	return &MockCampaignRepository{
		campaigns: make(map[int]*models.Campaign),
		nextID:    1,
		Calls:     make(map[string]int),
	}
}

// Add seeds a campaign into the store and returns it
func (m *MockCampaignRepository) Add(campaign *models.Campaign) *models.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	if campaign.ID == 0 {
		campaign.ID = m.nextID
		m.nextID++
	}
	c := *campaign
	m.campaigns[campaign.ID] = &c
	return campaign
}

// Stored returns a copy of the stored campaign, or nil
func (m *MockCampaignRepository) Stored(id int) *models.Campaign {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[id]
	if !ok {
		return nil
	}
	c := *stored
	return &c
}

func (m *MockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	m.mu.Lock()
	m.Calls["Create"]++
	m.mu.Unlock()
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = time.Now()
	m.Add(campaign)
	return nil
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	m.mu.Lock()
	m.Calls["GetByID"]++
	m.mu.Unlock()
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *stored
	return &c, nil
}

func (m *MockCampaignRepository) List(ctx context.Context, filters repository.CampaignFilters) ([]*models.Campaign, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["List"]++
	campaigns := make([]*models.Campaign, 0, len(m.campaigns))
	for _, stored := range m.campaigns {
		c := *stored
		campaigns = append(campaigns, &c)
	}
	return campaigns, len(campaigns), nil
}

func (m *MockCampaignRepository) ListSchedulable(ctx context.Context) ([]*models.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["ListSchedulable"]++
	campaigns := []*models.Campaign{}
	for _, stored := range m.campaigns {
		if stored.IsSchedulable() {
			c := *stored
			campaigns = append(campaigns, &c)
		}
	}
	return campaigns, nil
}

func (m *MockCampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Update"]++
	if _, ok := m.campaigns[campaign.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *campaign
	m.campaigns[campaign.ID] = &c
	return nil
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error {
	m.mu.Lock()
	m.Calls["UpdateStatus"]++
	m.mu.Unlock()
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = status
	return nil
}

func (m *MockCampaignRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	m.mu.Lock()
	m.Calls["IncrementSentToday"]++
	m.mu.Unlock()
	if m.IncrementSentTodayFunc != nil {
		return m.IncrementSentTodayFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.campaigns[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if stored.SentToday >= stored.DailyLimit {
		return 0, repository.ErrQuotaExhausted
	}
	stored.SentToday++
	return stored.SentToday, nil
}

func (m *MockCampaignRepository) ResetSentToday(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["ResetSentToday"]++
	for _, stored := range m.campaigns {
		stored.SentToday = 0
	}
	return nil
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Delete"]++
	if _, ok := m.campaigns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.campaigns, id)
	return nil
}

// MockSenderRepository is an in-memory SenderRepository
type MockSenderRepository struct {
	GetByIDFunc            func(ctx context.Context, id int) (*models.Sender, error)
	IncrementSentTodayFunc func(ctx context.Context, id int) (int, error)

	mu      sync.Mutex
	senders map[int]*models.Sender
	nextID  int
	Calls   map[string]int
}

func NewMockSenderRepository() *MockSenderRepository {
	return &MockSenderRepository{
		senders: make(map[int]*models.Sender),
		nextID:  1,
		Calls:   make(map[string]int),
	}
}

// Add seeds a sender into the store and returns it
func (m *MockSenderRepository) Add(sender *models.Sender) *models.Sender {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sender.ID == 0 {
		sender.ID = m.nextID
		m.nextID++
	}
	s := *sender
	m.senders[sender.ID] = &s
	return sender
}

// Stored returns a copy of the stored sender, or nil
func (m *MockSenderRepository) Stored(id int) *models.Sender {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.senders[id]
	if !ok {
		return nil
	}
	s := *stored
	return &s
}

func (m *MockSenderRepository) Create(ctx context.Context, sender *models.Sender) error {
	m.mu.Lock()
	m.Calls["Create"]++
	m.mu.Unlock()
	sender.CreatedAt = time.Now()
	sender.UpdatedAt = time.Now()
	m.Add(sender)
	return nil
}

func (m *MockSenderRepository) GetByID(ctx context.Context, id int) (*models.Sender, error) {
	m.mu.Lock()
	m.Calls["GetByID"]++
	m.mu.Unlock()
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.senders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := *stored
	return &s, nil
}

func (m *MockSenderRepository) GetByEmail(ctx context.Context, email string) (*models.Sender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["GetByEmail"]++
	for _, stored := range m.senders {
		if stored.Email == email {
			s := *stored
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockSenderRepository) List(ctx context.Context, limit, offset int) ([]*models.Sender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["List"]++
	senders := make([]*models.Sender, 0, len(m.senders))
	for _, stored := range m.senders {
		s := *stored
		senders = append(senders, &s)
	}
	return senders, nil
}

func (m *MockSenderRepository) Update(ctx context.Context, sender *models.Sender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Update"]++
	if _, ok := m.senders[sender.ID]; !ok {
		return repository.ErrNotFound
	}
	s := *sender
	m.senders[sender.ID] = &s
	return nil
}

func (m *MockSenderRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	m.mu.Lock()
	m.Calls["IncrementSentToday"]++
	m.mu.Unlock()
	if m.IncrementSentTodayFunc != nil {
		return m.IncrementSentTodayFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.senders[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if stored.SentToday >= stored.DailyLimit {
		return 0, repository.ErrQuotaExhausted
	}
	stored.SentToday++
	return stored.SentToday, nil
}

func (m *MockSenderRepository) ResetSentToday(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["ResetSentToday"]++
	for _, stored := range m.senders {
		stored.SentToday = 0
	}
	return nil
}

func (m *MockSenderRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["Delete"]++
	if _, ok := m.senders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.senders, id)
	return nil
}

// FakeClock is a manually advanced Clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SentEmail records one FakeMailer send
type SentEmail struct {
	From    string
	To      string
	Subject string
	Body    string
}

// FakeMailer records sends; FailFunc can inject failures per recipient
type FakeMailer struct {
	FailFunc func(to string) error

	mu   sync.Mutex
	Sent []SentEmail
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (f *FakeMailer) Send(ctx context.Context, from, to, subject, body string) error {
	if f.FailFunc != nil {
		if err := f.FailFunc(to); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.Sent = append(f.Sent, SentEmail{From: from, To: to, Subject: subject, Body: body})
	f.mu.Unlock()
	return nil
}

func (f *FakeMailer) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// FakePublisher records delivery events
type FakePublisher struct {
	PublishFunc func(event queue.DeliveryEvent) error

	mu     sync.Mutex
	Events []queue.DeliveryEvent
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishDelivery(event queue.DeliveryEvent) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(event)
	}
	f.mu.Lock()
	f.Events = append(f.Events, event)
	f.mu.Unlock()
	return nil
}

// FakeRenderer prefixes the body so tests can see it was applied
type FakeRenderer struct{}

func (FakeRenderer) Render(message string, sender *models.Sender, recipient string) (string, error) {
	return fmt.Sprintf("[%s->%s] %s", sender.Email, recipient, message), nil
}
