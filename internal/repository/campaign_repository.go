package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create creates a new campaign
func (r *campaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	query := `
		INSERT INTO campaigns (name, send_date, start_time, end_time, sending_delay, message, sender_ids, daily_limit, sent_today, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.Name,
		campaign.SendDate,
		campaign.StartTime,
		campaign.EndTime,
		campaign.SendingDelay,
		campaign.Message,
		intsToInt64Array(campaign.SenderIDs),
		campaign.DailyLimit,
		campaign.SentToday,
		campaign.Status,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// GetByID retrieves a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	query := `
		SELECT id, name, send_date, start_time, end_time, sending_delay, message, sender_ids, daily_limit, sent_today, status, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	campaign := &models.Campaign{}
	var senderIDs pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.SendDate,
		&campaign.StartTime,
		&campaign.EndTime,
		&campaign.SendingDelay,
		&campaign.Message,
		&senderIDs,
		&campaign.DailyLimit,
		&campaign.SentToday,
		&campaign.Status,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	campaign.SenderIDs = int64ArrayToInts(senderIDs)
	return campaign, nil
}

// List retrieves campaigns with filters and pagination
func (r *campaignRepository) List(ctx context.Context, filters CampaignFilters) ([]*models.Campaign, int, error) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
		SELECT id, name, send_date, start_time, end_time, sending_delay, message, sender_ids, daily_limit, sent_today, status, created_at, updated_at
		FROM campaigns
		WHERE 1=1
	`)

	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	// Order by ID DESC for stable pagination
	queryBuilder.WriteString(" ORDER BY id DESC")

	limit := filters.PageSize
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (filters.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns, err := scanCampaigns(rows)
	if err != nil {
		return nil, 0, err
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM campaigns WHERE 1=1"
	countArgs := []interface{}{}

	if filters.Status != nil {
		countQuery += " AND status = $1"
		countArgs = append(countArgs, *filters.Status)
	}

	var totalCount int
	err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	return campaigns, totalCount, nil
}

// ListSchedulable retrieves campaigns that should have a dispatch job
// registered (used to replay stored state at process start)
func (r *campaignRepository) ListSchedulable(ctx context.Context) ([]*models.Campaign, error) {
	query := `
		SELECT id, name, send_date, start_time, end_time, sending_delay, message, sender_ids, daily_limit, sent_today, status, created_at, updated_at
		FROM campaigns
		WHERE status IN ($1, $2)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, models.CampaignStatusScheduled, models.CampaignStatusRunning)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedulable campaigns: %w", err)
	}
	defer rows.Close()

	return scanCampaigns(rows)
}

// Update updates all mutable campaign fields
func (r *campaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $1, send_date = $2, start_time = $3, end_time = $4, sending_delay = $5,
			message = $6, sender_ids = $7, daily_limit = $8, sent_today = $9, status = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		campaign.Name,
		campaign.SendDate,
		campaign.StartTime,
		campaign.EndTime,
		campaign.SendingDelay,
		campaign.Message,
		intsToInt64Array(campaign.SenderIDs),
		campaign.DailyLimit,
		campaign.SentToday,
		campaign.Status,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatus updates campaign status
func (r *campaignRepository) UpdateStatus(ctx context.Context, id int, status models.CampaignStatus) error {
	query := `
		UPDATE campaigns
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementSentToday bumps sent_today by one while under daily_limit.
// The conditional UPDATE is the serialization point for campaigns whose
// ticks race with the daily reset.
func (r *campaignRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	query := `
		UPDATE campaigns
		SET sent_today = sent_today + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND sent_today < daily_limit
		RETURNING sent_today
	`

	var sentToday int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sentToday)
	if err == sql.ErrNoRows {
		// Either the campaign does not exist or the guard rejected the bump
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, ErrQuotaExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment campaign sent_today: %w", err)
	}

	return sentToday, nil
}

// ResetSentToday zeroes sent_today for every campaign (daily reset)
func (r *campaignRepository) ResetSentToday(ctx context.Context) error {
	query := `UPDATE campaigns SET sent_today = 0, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset campaign counters: %w", err)
	}

	return nil
}

// Delete deletes a campaign
func (r *campaignRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM campaigns WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// scanCampaigns scans all rows into campaign models
func scanCampaigns(rows *sql.Rows) ([]*models.Campaign, error) {
	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign := &models.Campaign{}
		var senderIDs pq.Int64Array
		err := rows.Scan(
			&campaign.ID,
			&campaign.Name,
			&campaign.SendDate,
			&campaign.StartTime,
			&campaign.EndTime,
			&campaign.SendingDelay,
			&campaign.Message,
			&senderIDs,
			&campaign.DailyLimit,
			&campaign.SentToday,
			&campaign.Status,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaign.SenderIDs = int64ArrayToInts(senderIDs)
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	return campaigns, nil
}

// int64ArrayToInts converts a pq integer array, preserving order
func int64ArrayToInts(arr pq.Int64Array) []int {
	ids := make([]int, len(arr))
	for i, v := range arr {
		ids[i] = int(v)
	}
	return ids
}

// intsToInt64Array converts ids for the integer[] column, preserving order
func intsToInt64Array(ids []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(ids))
	for i, v := range ids {
		arr[i] = int64(v)
	}
	return arr
}
