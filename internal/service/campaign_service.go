package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/faltuinsaaan/campaignbackend/internal/dispatch"
	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// DispatchScheduler is the scheduler capability the campaign lifecycle
// triggers drive. Satisfied by *dispatch.Scheduler.
type DispatchScheduler interface {
	RegisterCampaign(ctx context.Context, campaign *models.Campaign) error
	CancelCampaign(campaignID int)
}

// CampaignService handles campaign business logic and drives the dispatch
// scheduler on create/update/delete
type CampaignService struct {
	campaignRepo repository.CampaignRepository
	scheduler    DispatchScheduler
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo repository.CampaignRepository, scheduler DispatchScheduler) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		scheduler:    scheduler,
	}
}

// CreateCampaign validates, persists and schedules a new campaign.
// Bad dates or time strings are rejected here, before any job exists.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*models.Campaign, error) {
	sendDate, err := parseSendDate(req.SendDate)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := validateTimeOfDay(req.StartTime, req.EndTime); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	dailyLimit := req.DailyLimit
	if dailyLimit <= 0 {
		dailyLimit = models.DefaultCampaignDailyLimit
	}

	campaign := &models.Campaign{
		Name:         req.Name,
		SendDate:     sendDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SendingDelay: req.SendingDelay,
		Message:      req.Message,
		SenderIDs:    req.SenderIDs,
		DailyLimit:   dailyLimit,
		SentToday:    0,
		Status:       models.CampaignStatusScheduled,
	}

	if err := campaign.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if err := s.scheduler.RegisterCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to schedule campaign %d: %w", campaign.ID, err)
	}

	return campaign, nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, id int) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns lists campaigns with filters
func (s *CampaignService) ListCampaigns(ctx context.Context, filters repository.CampaignFilters) ([]*models.Campaign, *PaginationInfo, error) {
	campaigns, total, err := s.campaignRepo.List(ctx, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := &PaginationInfo{
		Page:       filters.Page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}

	return campaigns, pagination, nil
}

// UpdateCampaign applies the provided fields, persists and re-schedules the
// campaign. The dispatch job is always rebound to the campaign's current
// window and interval; the scheduler cancels the superseded job itself.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id int, req *UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	// If any value is provided, use that in the update
	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.SendDate != nil {
		sendDate, err := parseSendDate(*req.SendDate)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
		campaign.SendDate = sendDate
	}
	if req.StartTime != nil {
		campaign.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		campaign.EndTime = *req.EndTime
	}
	if req.SendingDelay != nil {
		campaign.SendingDelay = *req.SendingDelay
	}
	if req.Message != nil {
		campaign.Message = *req.Message
	}
	if req.SenderIDs != nil {
		campaign.SenderIDs = req.SenderIDs
	}
	if req.DailyLimit != nil {
		campaign.DailyLimit = *req.DailyLimit
	}

	if err := validateTimeOfDay(campaign.StartTime, campaign.EndTime); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	// Completed campaigns stay completed; everything else goes back to
	// scheduled so the fresh job can pick it up
	if campaign.Status != models.CampaignStatusCompleted {
		campaign.Status = models.CampaignStatusScheduled
	}

	if err := campaign.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "campaign", ID: id}
		}
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	if err := s.scheduler.RegisterCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to reschedule campaign %d: %w", campaign.ID, err)
	}

	return campaign, nil
}

// DeleteCampaign cancels the campaign's dispatch job, then deletes the record
func (s *CampaignService) DeleteCampaign(ctx context.Context, id int) error {
	s.scheduler.CancelCampaign(id)

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Resource: "campaign", ID: id}
		}
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	return nil
}

// RescheduleStored re-registers dispatch jobs for every schedulable stored
// campaign. Called once at process start, since the job registry lives in
// memory only.
func (s *CampaignService) RescheduleStored(ctx context.Context) (int, error) {
	campaigns, err := s.campaignRepo.ListSchedulable(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load schedulable campaigns: %w", err)
	}

	registered := 0
	for _, campaign := range campaigns {
		if err := s.scheduler.RegisterCampaign(ctx, campaign); err != nil {
			// A single bad stored record must not block the rest
			log.Printf("Warning: failed to reschedule campaign %d: %v", campaign.ID, err)
			continue
		}
		registered++
	}

	return registered, nil
}

// parseSendDate accepts a plain date or a full timestamp
func parseSendDate(text string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date supplied: %q", text)
}

// validateTimeOfDay rejects malformed window bounds up front
func validateTimeOfDay(startTime, endTime string) error {
	if _, err := dispatch.ParseClockTime(startTime); err != nil {
		return fmt.Errorf("invalid start time: %v", err)
	}
	if _, err := dispatch.ParseClockTime(endTime); err != nil {
		return fmt.Errorf("invalid end time: %v", err)
	}
	return nil
}

// Request/Response types

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name         string `json:"name"`
	SendDate     string `json:"send_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	SendingDelay int    `json:"sending_delay"`
	Message      string `json:"message"`
	SenderIDs    []int  `json:"sender_ids"`
	DailyLimit   int    `json:"daily_limit,omitempty"`
}

// UpdateCampaignRequest represents a partial campaign update
type UpdateCampaignRequest struct {
	Name         *string `json:"name,omitempty"`
	SendDate     *string `json:"send_date,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	SendingDelay *int    `json:"sending_delay,omitempty"`
	Message      *string `json:"message,omitempty"`
	SenderIDs    []int   `json:"sender_ids,omitempty"`
	DailyLimit   *int    `json:"daily_limit,omitempty"`
}

// PaginationInfo represents pagination metadata
type PaginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}
