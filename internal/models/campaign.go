package models

import (
	"fmt"
	"time"
)

// CampaignStatus represents valid campaign statuses
type CampaignStatus string

const (
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusRunning   CampaignStatus = "running"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// DefaultCampaignDailyLimit is applied when a campaign is created without one
const DefaultCampaignDailyLimit = 1000

// Campaign represents an email campaign in the system
type Campaign struct {
	ID           int            `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	SendDate     time.Time      `json:"send_date" db:"send_date"`
	StartTime    string         `json:"start_time" db:"start_time"`       // e.g. "04:15 AM"
	EndTime      string         `json:"end_time" db:"end_time"`           // e.g. "07:15 AM"
	SendingDelay int            `json:"sending_delay" db:"sending_delay"` // seconds between ticks
	Message      string         `json:"message" db:"message"`
	SenderIDs    []int          `json:"sender_ids" db:"sender_ids"` // ordered, selection priority
	DailyLimit   int            `json:"daily_limit" db:"daily_limit"`
	SentToday    int            `json:"sent_today" db:"sent_today"`
	Status       CampaignStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Validate checks if the campaign fields are valid
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if c.SendDate.IsZero() {
		return fmt.Errorf("send date is required")
	}
	if c.StartTime == "" || c.EndTime == "" {
		return fmt.Errorf("start time and end time are required")
	}
	if c.SendingDelay <= 0 {
		return fmt.Errorf("sending delay must be a positive number of seconds")
	}
	if c.Message == "" {
		return fmt.Errorf("message is required")
	}
	if len(c.SenderIDs) == 0 {
		return fmt.Errorf("at least one sender is required")
	}
	if c.DailyLimit <= 0 {
		return fmt.Errorf("daily limit must be greater than 0")
	}
	return nil
}

// UnderDailyLimit reports whether the campaign may still send today
func (c *Campaign) UnderDailyLimit() bool {
	return c.SentToday < c.DailyLimit
}

// IsCompleted checks if the campaign has finished for the day
func (c *Campaign) IsCompleted() bool {
	return c.Status == CampaignStatusCompleted
}

// IsSchedulable checks if the campaign should have a dispatch job registered
func (c *Campaign) IsSchedulable() bool {
	return c.Status == CampaignStatusScheduled || c.Status == CampaignStatusRunning
}
