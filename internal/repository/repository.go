package repository

import (
	"context"
	"database/sql"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

// CampaignRepository defines campaign data access operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	GetByID(ctx context.Context, id int) (*models.Campaign, error)
	List(ctx context.Context, filters CampaignFilters) ([]*models.Campaign, int, error)
	ListSchedulable(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error
	// IncrementSentToday bumps sent_today by one, but only while it is still
	// under daily_limit. Returns the new counter value, or ErrQuotaExhausted
	// when the guard rejected the increment.
	IncrementSentToday(ctx context.Context, id int) (int, error)
	ResetSentToday(ctx context.Context) error
	Delete(ctx context.Context, id int) error
}

// SenderRepository defines sender data access operations
type SenderRepository interface {
	Create(ctx context.Context, sender *models.Sender) error
	GetByID(ctx context.Context, id int) (*models.Sender, error)
	GetByEmail(ctx context.Context, email string) (*models.Sender, error)
	List(ctx context.Context, limit, offset int) ([]*models.Sender, error)
	Update(ctx context.Context, sender *models.Sender) error
	IncrementSentToday(ctx context.Context, id int) (int, error)
	ResetSentToday(ctx context.Context) error
	Delete(ctx context.Context, id int) error
}

// CampaignFilters defines filters for listing campaigns
type CampaignFilters struct {
	Page     int
	PageSize int
	Status   *models.CampaignStatus
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
