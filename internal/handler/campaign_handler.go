package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/faltuinsaaan/campaignbackend/internal/models"
	"github.com/faltuinsaaan/campaignbackend/internal/repository"
	"github.com/faltuinsaaan/campaignbackend/internal/service"
)

// CampaignHandler handles HTTP requests for campaign operations
type CampaignHandler struct {
	campaignService *service.CampaignService
	senderService   *service.SenderService
	templateService *service.TemplateService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(
	campaignService *service.CampaignService,
	senderService *service.SenderService,
	templateService *service.TemplateService,
) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		senderService:   senderService,
		templateService: templateService,
	}
}

// Create handles POST /campaigns - creates and schedules a new campaign
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCampaignRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	campaign, err := h.campaignService.CreateCampaign(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, campaign)
}

// List handles GET /campaigns - lists campaigns with filters
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	perPage := 20
	if perPageStr := query.Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 {
			perPage = pp
		}
	}
	if perPage > 100 {
		perPage = 100
	}

	filters := repository.CampaignFilters{
		Page:     page,
		PageSize: perPage,
	}

	if statusStr := query.Get("status"); statusStr != "" {
		validStatuses := map[string]models.CampaignStatus{
			"scheduled": models.CampaignStatusScheduled,
			"running":   models.CampaignStatusRunning,
			"completed": models.CampaignStatusCompleted,
		}
		if status, ok := validStatuses[statusStr]; ok {
			filters.Status = &status
		} else {
			WriteValidationError(w, "invalid status: must be one of scheduled, running, completed")
			return
		}
	}

	campaigns, pagination, err := h.campaignService.ListCampaigns(r.Context(), filters)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	response := ListCampaignsResponse{
		Campaigns:  campaigns,
		Pagination: pagination,
	}
	WriteOK(w, response)
}

// GetByID handles GET /campaigns/{id} - gets a campaign by ID
func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDFromRequest(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, campaign)
}

// Update handles PUT /campaigns/{id} - updates and reschedules a campaign
func (h *CampaignHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDFromRequest(w, r)
	if !ok {
		return
	}

	var req service.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	campaign, err := h.campaignService.UpdateCampaign(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, campaign)
}

// Delete handles DELETE /campaigns/{id} - cancels the dispatch job and deletes
func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(r.Context(), id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"message": "Campaign deleted"})
}

// Preview handles POST /campaigns/{id}/preview - renders the campaign
// message for one sender/recipient pair without sending anything
func (h *CampaignHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignIDFromRequest(w, r)
	if !ok {
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if req.Recipient == "" {
		WriteValidationError(w, "recipient is required")
		return
	}

	campaign, err := h.campaignService.GetCampaign(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	// Default to the campaign's first sender when none is given
	senderID := req.SenderID
	if senderID == 0 {
		if len(campaign.SenderIDs) == 0 {
			WriteValidationError(w, "campaign has no senders")
			return
		}
		senderID = campaign.SenderIDs[0]
	}

	sender, err := h.senderService.GetSender(r.Context(), senderID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	rendered, err := h.templateService.Render(campaign.Message, sender, req.Recipient)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, PreviewResponse{
		RenderedMessage: rendered,
		SenderEmail:     sender.Email,
		Recipient:       req.Recipient,
	})
}

// campaignIDFromRequest extracts and validates the {id} path variable
func campaignIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		WriteValidationError(w, "invalid campaign ID format")
		return 0, false
	}
	if id <= 0 {
		WriteValidationError(w, "campaign ID must be greater than 0")
		return 0, false
	}
	return id, true
}

// Request/Response types

// ListCampaignsResponse represents the response for listing campaigns
type ListCampaignsResponse struct {
	Campaigns  []*models.Campaign      `json:"campaigns"`
	Pagination *service.PaginationInfo `json:"pagination"`
}

// PreviewRequest represents a request to preview a campaign message
type PreviewRequest struct {
	SenderID  int    `json:"sender_id,omitempty"`
	Recipient string `json:"recipient"`
}

// PreviewResponse represents a rendered preview
type PreviewResponse struct {
	RenderedMessage string `json:"rendered_message"`
	SenderEmail     string `json:"sender_email"`
	Recipient       string `json:"recipient"`
}
