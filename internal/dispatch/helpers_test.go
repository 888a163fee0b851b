package dispatch

import (
	"testing"
	"time"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
)

// testDate is the calendar day all dispatch tests schedule on
var testDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// testRecipients is the recipient batch used by job tests
var testRecipients = []string{
	"recipient1@example.com",
	"recipient2@example.com",
	"recipient3@example.com",
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

// NewTestCampaign creates a campaign scheduled for 09:00 AM - 05:00 PM on
// the test date
func NewTestCampaign() *models.Campaign {
	return &models.Campaign{
		Name:         "Test Campaign",
		SendDate:     testDate,
		StartTime:    "09:00 AM",
		EndTime:      "05:00 PM",
		SendingDelay: 60,
		Message:      "Hello from the test campaign",
		SenderIDs:    []int{},
		DailyLimit:   1000,
		SentToday:    0,
		Status:       models.CampaignStatusScheduled,
	}
}

// NewTestSender creates a sender with a daily limit of 100
func NewTestSender(email string) *models.Sender {
	return &models.Sender{
		Email:      email,
		Name:       "Test Sender",
		DailyLimit: 100,
		SentToday:  0,
	}
}

// insideWindow is a clock time inside the default test campaign window
func insideWindow() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
}

// beforeWindow is a clock time before the default test campaign window
func beforeWindow() time.Time {
	return time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
}

// afterWindow is a clock time after the default test campaign window
func afterWindow() time.Time {
	return time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
}

// mustBuildWindow builds the window for a campaign or fails the test
func mustBuildWindow(t *testing.T, campaign *models.Campaign) Window {
	t.Helper()
	window, err := BuildWindow(campaign.SendDate, campaign.StartTime, campaign.EndTime)
	if err != nil {
		t.Fatalf("Failed to build window: %v", err)
	}
	return window
}
