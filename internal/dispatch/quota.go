package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// QuotaTracker tracks per-entity daily consumption against daily limits.
// Increments go through the repositories' conditional updates, so a counter
// can never be pushed past its limit even by concurrent ticks.
type QuotaTracker struct {
	campaignRepo repository.CampaignRepository
	senderRepo   repository.SenderRepository
}

// NewQuotaTracker creates a new quota tracker
func NewQuotaTracker(campaignRepo repository.CampaignRepository, senderRepo repository.SenderRepository) *QuotaTracker {
	return &QuotaTracker{
		campaignRepo: campaignRepo,
		senderRepo:   senderRepo,
	}
}

// RecordSend records one successful send against both the sender's and the
// campaign's daily counters and persists both. The sender is updated first,
// matching the order counters are observed by the selector; a failure
// between the two writes leaves counters inconsistent by at most one, which
// is the accepted best-effort contract.
func (t *QuotaTracker) RecordSend(ctx context.Context, campaign *models.Campaign, sender *models.Sender) error {
	sent, err := t.senderRepo.IncrementSentToday(ctx, sender.ID)
	if err != nil {
		return fmt.Errorf("record sender send: %w", err)
	}
	sender.SentToday = sent

	sent, err = t.campaignRepo.IncrementSentToday(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("record campaign send: %w", err)
	}
	campaign.SentToday = sent

	return nil
}

// ResetSenders zeroes every sender's sent_today counter
func (t *QuotaTracker) ResetSenders(ctx context.Context) error {
	if err := t.senderRepo.ResetSentToday(ctx); err != nil {
		return fmt.Errorf("reset sender counters: %w", err)
	}
	log.Println("Daily sender counters have been reset")
	return nil
}

// ResetCampaigns zeroes every campaign's sent_today counter
func (t *QuotaTracker) ResetCampaigns(ctx context.Context) error {
	if err := t.campaignRepo.ResetSentToday(ctx); err != nil {
		return fmt.Errorf("reset campaign counters: %w", err)
	}
	log.Println("Daily campaign counters have been reset")
	return nil
}
