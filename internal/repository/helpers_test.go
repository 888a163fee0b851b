package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

// NewMockDB creates a mock database for testing
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	return db, mock
}

// AssertNoError checks that no error occurred
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}

// AssertEqual checks if two values are equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %v but got %v", want, got)
	}
}

// AssertExpectationsMet verifies every expected query ran
func AssertExpectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

var (
	testTime     = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	testSendDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
)

var campaignColumns = []string{
	"id", "name", "send_date", "start_time", "end_time", "sending_delay",
	"message", "sender_ids", "daily_limit", "sent_today", "status",
	"created_at", "updated_at",
}

var senderColumns = []string{
	"id", "email", "name", "daily_limit", "sent_today", "created_at", "updated_at",
}

// campaignRow builds a result row matching the campaign SELECT column order
func campaignRow(id int) *sqlmock.Rows {
	return sqlmock.NewRows(campaignColumns).AddRow(
		id, "Test Campaign", testSendDate, "09:00 AM", "05:00 PM", 60,
		"Hello {recipient_name}!", "{1,2}", 1000, 0, models.CampaignStatusScheduled,
		testTime, testTime,
	)
}

// senderRow builds a result row matching the sender SELECT column order
func senderRow(id int, email string) *sqlmock.Rows {
	return sqlmock.NewRows(senderColumns).AddRow(
		id, email, "Test Sender", 100, 0, testTime, testTime,
	)
}
