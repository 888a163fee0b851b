package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSenderDailyLimit is applied when a sender is created without one
const DefaultSenderDailyLimit = 100

// Sender represents a sending identity (a from-address with its own quota)
type Sender struct {
	ID         int       `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	DailyLimit int       `json:"daily_limit" db:"daily_limit"`
	SentToday  int       `json:"sent_today" db:"sent_today"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks if the sender fields are valid
func (s *Sender) Validate() error {
	if s.Email == "" {
		return fmt.Errorf("sender email is required")
	}
	if !strings.Contains(s.Email, "@") {
		return fmt.Errorf("sender email must be a valid email address")
	}
	if s.Name == "" {
		return fmt.Errorf("sender name is required")
	}
	if s.DailyLimit <= 0 {
		return fmt.Errorf("daily limit must be greater than 0")
	}
	return nil
}

// UnderDailyLimit reports whether the sender may still send today
func (s *Sender) UnderDailyLimit() bool {
	return s.SentToday < s.DailyLimit
}
