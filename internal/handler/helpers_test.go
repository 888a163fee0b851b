package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
	"github.com/faltuinsaaan/campaignbackend/internal/service"
)

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

// AssertNotNil checks if value is not nil
func AssertNotNil(t *testing.T, value interface{}) {
	t.Helper()
	if value == nil {
		t.Error("Expected non-nil value but got nil")
	}
}

// AssertContains checks if a string contains a substring
func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected %q to contain %q", haystack, needle)
	}
}

// NewMockDB creates a mock database for testing
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	return db, mock
}

// NewJSONRequest creates an HTTP request with a JSON body
func NewJSONRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal JSON: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ParseJSONResponse decodes a JSON response body into target
func ParseJSONResponse(t *testing.T, resp *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertStatusCode checks HTTP response status code
func AssertStatusCode(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()
	if resp.Code != want {
		t.Errorf("Expected status code %d but got %d", want, resp.Code)
	}
}

// AssertJSONContentType checks Content-Type header
func AssertJSONContentType(t *testing.T, resp *httptest.ResponseRecorder) {
	t.Helper()
	contentType := resp.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Expected Content-Type application/json but got %s", contentType)
	}
}

// stubScheduler satisfies service.DispatchScheduler without ticking anything
type stubScheduler struct {
	Registered []*models.Campaign
	Cancelled  []int
}

func (s *stubScheduler) RegisterCampaign(ctx context.Context, campaign *models.Campaign) error {
	s.Registered = append(s.Registered, campaign)
	return nil
}

func (s *stubScheduler) CancelCampaign(campaignID int) {
	s.Cancelled = append(s.Cancelled, campaignID)
}

// setupTestRouter wires real repositories and services over the mock DB,
// with a stub scheduler in place of the cron-driven one
func setupTestRouter(t *testing.T, db *sql.DB) (*mux.Router, *stubScheduler) {
	t.Helper()

	scheduler := &stubScheduler{}
	campaignRepo := repository.NewCampaignRepository(db)
	senderRepo := repository.NewSenderRepository(db)

	campaignSvc := service.NewCampaignService(campaignRepo, scheduler)
	senderSvc := service.NewSenderService(senderRepo)
	templateSvc := service.NewTemplateService()

	campaignHandler := NewCampaignHandler(campaignSvc, senderSvc, templateSvc)
	senderHandler := NewSenderHandler(senderSvc)

	router := mux.NewRouter()
	router.HandleFunc("/campaigns", campaignHandler.Create).Methods("POST")
	router.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	router.HandleFunc("/campaigns/{id}", campaignHandler.GetByID).Methods("GET")
	router.HandleFunc("/campaigns/{id}", campaignHandler.Update).Methods("PUT")
	router.HandleFunc("/campaigns/{id}", campaignHandler.Delete).Methods("DELETE")
	router.HandleFunc("/campaigns/{id}/preview", campaignHandler.Preview).Methods("POST")
	router.HandleFunc("/senders", senderHandler.Create).Methods("POST")
	router.HandleFunc("/senders", senderHandler.List).Methods("GET")
	router.HandleFunc("/senders/{id}", senderHandler.GetByID).Methods("GET")
	router.HandleFunc("/senders/{id}", senderHandler.Update).Methods("PUT")
	router.HandleFunc("/senders/{id}", senderHandler.Delete).Methods("DELETE")
	return router, scheduler
}
