package service

import (
	"context"
	"database/sql"
	"time"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// QueueChecker reports broker connectivity (satisfied by *queue.Connection)
type QueueChecker interface {
	IsConnected() bool
}

// JobCounter reports the number of registered dispatch jobs
// (satisfied by *dispatch.Scheduler)
type JobCounter interface {
	JobCount() int
}

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status       string            `json:"status"`
	Services     map[string]string `json:"services"`
	DispatchJobs int               `json:"dispatch_jobs"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version,omitempty"`
}

// HealthChecker handles health check operations
type HealthChecker struct {
	db        *sql.DB
	queue     QueueChecker
	scheduler JobCounter
	version   string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, queue QueueChecker, scheduler JobCounter, version string) *HealthChecker {
	return &HealthChecker{
		db:        db,
		queue:     queue,
		scheduler: scheduler,
		version:   version,
	}
}

// CheckHealth reports database and broker connectivity plus the current
// dispatch job count
func (h *HealthChecker) CheckHealth() (*HealthStatus, error) {
	services := map[string]string{
		"database": h.checkDatabase(),
		"queue":    h.checkQueue(),
	}

	status := StatusHealthy
	if services["database"] == StatusDisconnected {
		status = StatusUnhealthy
	} else if services["queue"] == StatusDisconnected {
		// Dispatching works without the audit trail, but flag it
		status = StatusDegraded
	}

	jobs := 0
	if h.scheduler != nil {
		jobs = h.scheduler.JobCount()
	}

	return &HealthStatus{
		Status:       status,
		Services:     services,
		DispatchJobs: jobs,
		Timestamp:    time.Now(),
		Version:      h.version,
	}, nil
}

// checkDatabase verifies PostgreSQL connectivity with a timeout
func (h *HealthChecker) checkDatabase() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

// checkQueue verifies broker connectivity
func (h *HealthChecker) checkQueue() string {
	if h.queue == nil || !h.queue.IsConnected() {
		return StatusDisconnected
	}
	return StatusConnected
}
