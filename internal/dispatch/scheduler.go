package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/faltuinsaaan/campaignbackend/internal/mailer"
	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
)

// dailyResetSpec fires once per day at 00:00 local time
const dailyResetSpec = "0 0 * * *"

type jobEntry struct {
	job     *Job
	entryID cron.EntryID
}

// Scheduler owns the set of active dispatch jobs. It creates and cancels
// them in response to campaign lifecycle events and runs the process-wide
// daily quota reset. The registry is in-memory only; on restart, stored
// campaigns are replayed through RegisterCampaign by the caller.
type Scheduler struct {
	mu   sync.Mutex
	cron *cron.Cron
	jobs map[int]*jobEntry

	campaignRepo repository.CampaignRepository
	quota        *QuotaTracker
	selector     *SenderSelector
	mailer       mailer.Mailer
	renderer     Renderer
	publisher    DeliveryPublisher
	recipients   []string
	clock        Clock
}

// NewScheduler creates a dispatch scheduler. The publisher and renderer may
// be nil (no audit events, raw message bodies). A nil clock uses real time.
func NewScheduler(
	campaignRepo repository.CampaignRepository,
	senderRepo repository.SenderRepository,
	m mailer.Mailer,
	renderer Renderer,
	publisher DeliveryPublisher,
	recipients []string,
	clock Clock,
) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}

	// SecondOptional keeps the daily reset on a plain 5-field spec while
	// @every handles sub-minute sending delays exactly.
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	return &Scheduler{
		cron:         cron.New(cron.WithParser(parser)),
		jobs:         make(map[int]*jobEntry),
		campaignRepo: campaignRepo,
		quota:        NewQuotaTracker(campaignRepo, senderRepo),
		selector:     NewSenderSelector(senderRepo),
		mailer:       m,
		renderer:     renderer,
		publisher:    publisher,
		recipients:   recipients,
		clock:        clock,
	}
}

// Start begins firing scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Dispatch scheduler started")
}

// Stop cancels all jobs, stops the timers and waits for any tick already in
// progress to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, entry := range s.jobs {
		entry.job.Cancel()
		s.cron.Remove(entry.entryID)
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	log.Println("Dispatch scheduler stopped")
}

// RegisterCampaign computes the campaign's send window and registers a
// recurring dispatch job firing every sending_delay seconds inside it. Any
// existing job for the same campaign id is cancelled first, so an edited
// campaign never has two jobs racing on its counters.
func (s *Scheduler) RegisterCampaign(ctx context.Context, campaign *models.Campaign) error {
	window, err := BuildWindow(campaign.SendDate, campaign.StartTime, campaign.EndTime)
	if err != nil {
		return err
	}

	job := NewJob(
		campaign.ID,
		window,
		s.campaignRepo,
		s.quota,
		s.selector,
		s.mailer,
		s.renderer,
		s.publisher,
		s.recipients,
		s.clock,
	)

	spec := fmt.Sprintf("@every %ds", campaign.SendingDelay)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cancel-then-register: a superseded job must not keep ticking
	s.cancelLocked(campaign.ID)

	entryID, err := s.cron.AddFunc(spec, func() { s.runTick(job) })
	if err != nil {
		return fmt.Errorf("schedule campaign %d: %w", campaign.ID, err)
	}
	s.jobs[campaign.ID] = &jobEntry{job: job, entryID: entryID}

	log.Printf("Campaign %q scheduled to run from %s to %s at %d second intervals",
		campaign.Name,
		window.Start.Format(time.RFC3339),
		window.End.Format(time.RFC3339),
		campaign.SendingDelay,
	)
	return nil
}

// CancelCampaign stops and removes the job for the given campaign id, if any
func (s *Scheduler) CancelCampaign(campaignID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLocked(campaignID) {
		log.Printf("Dispatch job for campaign %d cancelled", campaignID)
	}
}

// cancelLocked removes a job from the registry. Call with s.mu held.
func (s *Scheduler) cancelLocked(campaignID int) bool {
	entry, ok := s.jobs[campaignID]
	if !ok {
		return false
	}
	entry.job.Cancel()
	s.cron.Remove(entry.entryID)
	delete(s.jobs, campaignID)
	return true
}

// RegisterDailyReset installs the once-daily job that zeroes sent_today for
// every sender and campaign at 00:00 local time
func (s *Scheduler) RegisterDailyReset() error {
	_, err := s.cron.AddFunc(dailyResetSpec, s.runDailyReset)
	if err != nil {
		return fmt.Errorf("register daily reset: %w", err)
	}
	return nil
}

// runDailyReset resets both entity kinds; a failure on one kind must not
// prevent the other from resetting
func (s *Scheduler) runDailyReset() {
	ctx := context.Background()

	if err := s.quota.ResetSenders(ctx); err != nil {
		log.Printf("ERROR: daily sender reset failed: %v", err)
	}
	if err := s.quota.ResetCampaigns(ctx); err != nil {
		log.Printf("ERROR: daily campaign reset failed: %v", err)
	}
}

// runTick executes one job tick, containing any error at the tick boundary,
// and reaps the job once it reaches a terminal state
func (s *Scheduler) runTick(job *Job) {
	if err := job.Tick(context.Background()); err != nil {
		// Fault isolation: log and leave the recurrence in place
		log.Printf("ERROR: dispatch tick for campaign %d failed: %v", job.CampaignID(), err)
	}

	if !job.State().Terminal() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.jobs[job.CampaignID()]; ok && entry.job == job {
		s.cron.Remove(entry.entryID)
		delete(s.jobs, job.CampaignID())
	}
}

// JobCount returns the number of registered dispatch jobs (for health checks)
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// JobState reports the state of the job for a campaign id, if one exists
func (s *Scheduler) JobState(campaignID int) (JobState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.jobs[campaignID]
	if !ok {
		return "", false
	}
	return entry.job.State(), true
}
