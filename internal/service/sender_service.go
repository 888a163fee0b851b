package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// SenderService handles sender business logic
type SenderService struct {
	senderRepo repository.SenderRepository
}

// NewSenderService creates a new sender service
func NewSenderService(senderRepo repository.SenderRepository) *SenderService {
	return &SenderService{senderRepo: senderRepo}
}

// CreateSender validates and persists a new sender
func (s *SenderService) CreateSender(ctx context.Context, req *CreateSenderRequest) (*models.Sender, error) {
	dailyLimit := req.DailyLimit
	if dailyLimit <= 0 {
		dailyLimit = models.DefaultSenderDailyLimit
	}

	sender := &models.Sender{
		Email:      req.Email,
		Name:       req.Name,
		DailyLimit: dailyLimit,
		SentToday:  0,
	}

	if err := sender.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	// Email addresses are unique across senders
	if existing, err := s.senderRepo.GetByEmail(ctx, sender.Email); err == nil && existing != nil {
		return nil, &ConflictError{Resource: "sender", Message: fmt.Sprintf("email %s already exists", sender.Email)}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check sender email: %w", err)
	}

	if err := s.senderRepo.Create(ctx, sender); err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}

	return sender, nil
}

// GetSender retrieves a sender by ID
func (s *SenderService) GetSender(ctx context.Context, id int) (*models.Sender, error) {
	sender, err := s.senderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "sender", ID: id}
		}
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	return sender, nil
}

// ListSenders lists senders with pagination
func (s *SenderService) ListSenders(ctx context.Context, page, perPage int) ([]*models.Sender, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}

	senders, err := s.senderRepo.List(ctx, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list senders: %w", err)
	}
	return senders, nil
}

// UpdateSender applies the provided fields and persists the sender
func (s *SenderService) UpdateSender(ctx context.Context, id int, req *UpdateSenderRequest) (*models.Sender, error) {
	sender, err := s.senderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "sender", ID: id}
		}
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}

	if req.Email != nil {
		sender.Email = *req.Email
	}
	if req.Name != nil {
		sender.Name = *req.Name
	}
	if req.DailyLimit != nil {
		sender.DailyLimit = *req.DailyLimit
	}

	if err := sender.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.senderRepo.Update(ctx, sender); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "sender", ID: id}
		}
		return nil, fmt.Errorf("failed to update sender: %w", err)
	}

	return sender, nil
}

// DeleteSender deletes a sender. Campaigns referencing it keep the id; the
// selector simply skips ids that no longer resolve.
func (s *SenderService) DeleteSender(ctx context.Context, id int) error {
	if err := s.senderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "sender", ID: id}
		}
		return fmt.Errorf("failed to delete sender: %w", err)
	}
	return nil
}

// Request types

// CreateSenderRequest represents a request to create a sender
type CreateSenderRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	DailyLimit int    `json:"daily_limit,omitempty"`
}

// UpdateSenderRequest represents a partial sender update
type UpdateSenderRequest struct {
	Email      *string `json:"email,omitempty"`
	Name       *string `json:"name,omitempty"`
	DailyLimit *int    `json:"daily_limit,omitempty"`
}
