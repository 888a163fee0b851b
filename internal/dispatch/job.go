package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/faltuinsaaan/campaignbackend/internal/mailer"
	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/queue"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// JobState represents the lifecycle state of a dispatch job
type JobState string

const (
	JobStatePending   JobState = "pending"   // created, window not yet reached
	JobStateActive    JobState = "active"    // inside window, ticking
	JobStateCompleted JobState = "completed" // terminal: limit reached or window passed
	JobStateCancelled JobState = "cancelled" // terminal: superseded by edit/delete
)

// Terminal reports whether the state can never transition again
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateCancelled
}

// Renderer renders a campaign message body for one recipient
type Renderer interface {
	Render(message string, sender *models.Sender, recipient string) (string, error)
}

// DeliveryPublisher publishes per-send delivery events for the audit worker.
// Publishing is fire-and-forget from the job's point of view.
type DeliveryPublisher interface {
	PublishDelivery(event queue.DeliveryEvent) error
}

// Job is a recurring unit of work bound to one campaign. It performs one
// dispatch tick per invocation while the clock is inside the campaign's
// window, and self-terminates when the campaign completes or the window
// passes. Errors inside a tick are surfaced to the caller for logging but
// never stop the recurrence; the job is simply retried next interval.
type Job struct {
	campaignID int
	window     Window

	campaignRepo repository.CampaignRepository
	quota        *QuotaTracker
	selector     *SenderSelector
	mailer       mailer.Mailer
	renderer     Renderer
	publisher    DeliveryPublisher
	recipients   []string
	clock        Clock

	mu      sync.Mutex
	state   JobState
	ticking bool
}

// NewJob creates a dispatch job for one campaign
func NewJob(
	campaignID int,
	window Window,
	campaignRepo repository.CampaignRepository,
	quota *QuotaTracker,
	selector *SenderSelector,
	m mailer.Mailer,
	renderer Renderer,
	publisher DeliveryPublisher,
	recipients []string,
	clock Clock,
) *Job {
	if clock == nil {
		clock = SystemClock()
	}
	return &Job{
		campaignID:   campaignID,
		window:       window,
		campaignRepo: campaignRepo,
		quota:        quota,
		selector:     selector,
		mailer:       m,
		renderer:     renderer,
		publisher:    publisher,
		recipients:   recipients,
		clock:        clock,
		state:        JobStatePending,
	}
}

// CampaignID returns the id of the campaign this job is bound to
func (j *Job) CampaignID() int {
	return j.campaignID
}

// Window returns the job's send window
func (j *Job) Window() Window {
	return j.window
}

// State returns the current job state
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Cancel moves the job to the cancelled terminal state. A tick already in
// progress is allowed to finish; no further ticks will send.
func (j *Job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.state.Terminal() {
		j.state = JobStateCancelled
	}
}

// setState transitions to the given state unless already terminal
func (j *Job) setState(state JobState) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.state.Terminal() {
		j.state = state
	}
}

// beginTick marks the tick in progress. Returns false when the job is
// terminal or the previous tick has not finished yet (a slow send must not
// be overlapped by the next interval firing).
func (j *Job) beginTick() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() || j.ticking {
		return false
	}
	j.ticking = true
	return true
}

func (j *Job) endTick() {
	j.mu.Lock()
	j.ticking = false
	j.mu.Unlock()
}

// Tick performs one dispatch round for the campaign. It only acts while the
// clock is inside the campaign's window. The returned error is for logging
// at the tick boundary; the job remains schedulable after any error.
func (j *Job) Tick(ctx context.Context) error {
	if !j.beginTick() {
		return nil
	}
	defer j.endTick()

	now := j.clock.Now()
	if now.Before(j.window.Start) {
		// Window not reached yet, stay pending
		return nil
	}
	if now.After(j.window.End) {
		// Window passed; the job is done recurring for this campaign
		j.setState(JobStateCompleted)
		return nil
	}
	j.setState(JobStateActive)

	// Re-read campaign state so edits and the daily reset are observed
	campaign, err := j.campaignRepo.GetByID(ctx, j.campaignID)
	if err != nil {
		return fmt.Errorf("load campaign %d: %w", j.campaignID, err)
	}

	if campaign.IsCompleted() {
		j.setState(JobStateCompleted)
		return nil
	}

	if !campaign.UnderDailyLimit() {
		return j.completeCampaign(ctx, campaign)
	}

	sender, err := j.selector.FindAvailableSender(ctx, campaign)
	if err != nil {
		return err
	}
	if sender == nil {
		// Not an error: every sender is exhausted this tick, retry next one
		log.Printf("No sender available for campaign %q, retrying later", campaign.Name)
		return nil
	}

	if campaign.Status != models.CampaignStatusRunning {
		if err := j.campaignRepo.UpdateStatus(ctx, campaign.ID, models.CampaignStatusRunning); err != nil {
			return fmt.Errorf("mark campaign %d running: %w", campaign.ID, err)
		}
		campaign.Status = models.CampaignStatusRunning
	}

	if err := j.sendBatch(ctx, campaign, sender); err != nil {
		return err
	}

	if !campaign.UnderDailyLimit() {
		return j.completeCampaign(ctx, campaign)
	}

	return nil
}

// sendBatch walks the recipient batch sequentially, sending from the chosen
// sender and recording quota consumption after each successful send.
// Partial batches are expected whenever a quota runs out mid-loop.
func (j *Job) sendBatch(ctx context.Context, campaign *models.Campaign, sender *models.Sender) error {
	for _, recipient := range j.recipients {
		if !campaign.UnderDailyLimit() || !sender.UnderDailyLimit() {
			log.Printf("Campaign %q or sender %s reached daily limit", campaign.Name, sender.Email)
			break
		}

		body := campaign.Message
		if j.renderer != nil {
			rendered, err := j.renderer.Render(campaign.Message, sender, recipient)
			if err != nil {
				return fmt.Errorf("render message for %s: %w", recipient, err)
			}
			body = rendered
		}

		if err := j.mailer.Send(ctx, sender.Email, recipient, campaign.Name, body); err != nil {
			j.publishEvent(campaign, sender, recipient, queue.DeliveryStatusFailed, err)
			return fmt.Errorf("send to %s: %w", recipient, err)
		}

		if err := j.quota.RecordSend(ctx, campaign, sender); err != nil {
			if errors.Is(err, repository.ErrQuotaExhausted) {
				// Lost a race on a shared counter; stop this batch cleanly
				log.Printf("Quota exhausted recording send for campaign %q via %s", campaign.Name, sender.Email)
				break
			}
			return err
		}

		j.publishEvent(campaign, sender, recipient, queue.DeliveryStatusSent, nil)
		log.Printf("Email sent from %s to %s. Campaign sent count: %d. Sender sent count: %d",
			sender.Email, recipient, campaign.SentToday, sender.SentToday)
	}

	return nil
}

// completeCampaign persists the completed status and terminates the job
func (j *Job) completeCampaign(ctx context.Context, campaign *models.Campaign) error {
	if err := j.campaignRepo.UpdateStatus(ctx, campaign.ID, models.CampaignStatusCompleted); err != nil {
		return fmt.Errorf("mark campaign %d completed: %w", campaign.ID, err)
	}
	campaign.Status = models.CampaignStatusCompleted
	log.Printf("Campaign %q has reached its daily send limit", campaign.Name)
	j.setState(JobStateCompleted)
	return nil
}

// publishEvent emits a delivery event; publish failures are logged only,
// the audit trail must never affect dispatching
func (j *Job) publishEvent(campaign *models.Campaign, sender *models.Sender, recipient, status string, sendErr error) {
	if j.publisher == nil {
		return
	}

	event := queue.DeliveryEvent{
		CampaignID: campaign.ID,
		SenderID:   sender.ID,
		Recipient:  recipient,
		Status:     status,
		SentAt:     time.Now(),
	}
	if sendErr != nil {
		event.Error = sendErr.Error()
	}

	if err := j.publisher.PublishDelivery(event); err != nil {
		log.Printf("Warning: failed to publish delivery event for campaign %d: %v", campaign.ID, err)
	}
}
