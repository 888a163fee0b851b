package mailer

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Simulator is a Mailer that fakes delivery with configurable reliability.
// Used in development and tests so no real emails leave the process.
type Simulator struct {
	mu          sync.Mutex
	successRate float64 // 0.0 to 1.0 (e.g., 0.95 = 95% success)
	rand        *rand.Rand
	sleep       bool
}

// NewSimulator creates a simulated mailer.
// successRate: probability of successful send (0.0 to 1.0)
func NewSimulator(successRate float64) *Simulator {
	if successRate < 0.0 {
		successRate = 0.0
	}
	if successRate > 1.0 {
		successRate = 1.0
	}

	return &Simulator{
		successRate: successRate,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       true,
	}
}

// NewInstantSimulator creates a simulator without artificial latency (tests)
func NewInstantSimulator(successRate float64) *Simulator {
	s := NewSimulator(successRate)
	s.sleep = false
	return s
}

// Send pretends to deliver one email
func (s *Simulator) Send(ctx context.Context, from, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	latency := time.Duration(50+s.rand.Intn(150)) * time.Millisecond
	success := s.rand.Float64() < s.successRate
	var reason string
	if !success {
		failures := []string{
			"network timeout",
			"mailbox unavailable",
			"rate limit exceeded",
			"service temporarily unavailable",
			"relay access denied",
		}
		reason = failures[s.rand.Intn(len(failures))]
	}
	doSleep := s.sleep
	s.mu.Unlock()

	// Simulate network latency (50-200ms)
	if doSleep {
		time.Sleep(latency)
	}

	if !success {
		return fmt.Errorf("failed to send email from %s to %s: %s", from, to, reason)
	}

	return nil
}

// SetSuccessRate updates the success rate (for testing)
func (s *Simulator) SetSuccessRate(rate float64) {
	if rate < 0.0 {
		rate = 0.0
	}
	if rate > 1.0 {
		rate = 1.0
	}
	s.mu.Lock()
	s.successRate = rate
	s.mu.Unlock()
}
