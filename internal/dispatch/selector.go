package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// SenderSelector picks the sender a dispatch tick should use
type SenderSelector struct {
	senderRepo repository.SenderRepository
}

// NewSenderSelector creates a new sender selector
func NewSenderSelector(senderRepo repository.SenderRepository) *SenderSelector {
	return &SenderSelector{senderRepo: senderRepo}
}

// FindAvailableSender scans the campaign's sender list in stored order and
// returns the first sender still under its daily limit. Earlier senders
// absorb load preferentially until exhausted. Returns nil when the list is
// empty or every sender has reached its limit. Sender ids that no longer
// resolve to a record are skipped.
func (s *SenderSelector) FindAvailableSender(ctx context.Context, campaign *models.Campaign) (*models.Sender, error) {
	for _, senderID := range campaign.SenderIDs {
		sender, err := s.senderRepo.GetByID(ctx, senderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("find available sender: %w", err)
		}

		if sender.UnderDailyLimit() {
			return sender, nil
		}
	}

	return nil, nil
}
