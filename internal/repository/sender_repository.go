package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

type senderRepository struct {
	db *sql.DB
}

// NewSenderRepository creates a new sender repository
func NewSenderRepository(db *sql.DB) SenderRepository {
	return &senderRepository{db: db}
}

// Create creates a new sender
func (r *senderRepository) Create(ctx context.Context, sender *models.Sender) error {
	query := `
		INSERT INTO senders (email, name, daily_limit, sent_today)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		sender.Email,
		sender.Name,
		sender.DailyLimit,
		sender.SentToday,
	).Scan(&sender.ID, &sender.CreatedAt, &sender.UpdatedAt)

	if err != nil {
		// Surface the unique-email violation distinctly
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("sender email %s already exists: %w", sender.Email, err)
		}
		return fmt.Errorf("failed to create sender: %w", err)
	}

	return nil
}

// GetByID retrieves a sender by ID
func (r *senderRepository) GetByID(ctx context.Context, id int) (*models.Sender, error) {
	query := `
		SELECT id, email, name, daily_limit, sent_today, created_at, updated_at
		FROM senders
		WHERE id = $1
	`

	sender := &models.Sender{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sender.ID,
		&sender.Email,
		&sender.Name,
		&sender.DailyLimit,
		&sender.SentToday,
		&sender.CreatedAt,
		&sender.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}

	return sender, nil
}

// GetByEmail retrieves a sender by its unique email address
func (r *senderRepository) GetByEmail(ctx context.Context, email string) (*models.Sender, error) {
	query := `
		SELECT id, email, name, daily_limit, sent_today, created_at, updated_at
		FROM senders
		WHERE email = $1
	`

	sender := &models.Sender{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&sender.ID,
		&sender.Email,
		&sender.Name,
		&sender.DailyLimit,
		&sender.SentToday,
		&sender.CreatedAt,
		&sender.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sender by email: %w", err)
	}

	return sender, nil
}

// List retrieves senders with pagination
func (r *senderRepository) List(ctx context.Context, limit, offset int) ([]*models.Sender, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, email, name, daily_limit, sent_today, created_at, updated_at
		FROM senders
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list senders: %w", err)
	}
	defer rows.Close()

	senders := []*models.Sender{}
	for rows.Next() {
		sender := &models.Sender{}
		err := rows.Scan(
			&sender.ID,
			&sender.Email,
			&sender.Name,
			&sender.DailyLimit,
			&sender.SentToday,
			&sender.CreatedAt,
			&sender.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sender: %w", err)
		}
		senders = append(senders, sender)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate senders: %w", err)
	}

	return senders, nil
}

// Update updates a sender's mutable fields
func (r *senderRepository) Update(ctx context.Context, sender *models.Sender) error {
	query := `
		UPDATE senders
		SET email = $1, name = $2, daily_limit = $3, sent_today = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		sender.Email,
		sender.Name,
		sender.DailyLimit,
		sender.SentToday,
		sender.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sender: %w", err)
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
// The conditional UPDATE serializes concurrent increments for a sender
// shared across campaigns, so the counter cannot exceed the limit.
func (r *senderRepository) IncrementSentToday(ctx context.Context, id int) (int, error) {
	query := `
		UPDATE senders
		SET sent_today = sent_today + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND sent_today < daily_limit
		RETURNING sent_today
	`

	var sentToday int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&sentToday)
	if err == sql.ErrNoRows {
		// Either the sender does not exist or the guard rejected the bump
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, ErrQuotaExhausted
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment sender sent_today: %w", err)
	}

	return sentToday, nil
}

// ResetSentToday zeroes sent_today for every sender (daily reset)
func (r *senderRepository) ResetSentToday(ctx context.Context) error {
	query := `UPDATE senders SET sent_today = 0, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset sender counters: %w", err)
	}

	return nil
}

// Delete deletes a sender
func (r *senderRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM senders WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sender: %w", err)
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
