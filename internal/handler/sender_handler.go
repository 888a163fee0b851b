package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/faltuinsaaan/campaignbackend/internal/service"
)

// SenderHandler handles HTTP requests for sender operations
type SenderHandler struct {
	senderService *service.SenderService
}

// NewSenderHandler creates a new sender handler
func NewSenderHandler(senderService *service.SenderService) *SenderHandler {
	return &SenderHandler{senderService: senderService}
}

// Create handles POST /senders - creates a new sender
func (h *SenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSenderRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	sender, err := h.senderService.CreateSender(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, sender)
}

// List handles GET /senders - lists senders with pagination
func (h *SenderHandler) List(w http.ResponseWriter, r *http.Request) {
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

	senders, err := h.senderService.ListSenders(r.Context(), page, perPage)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]interface{}{"senders": senders})
}

// GetByID handles GET /senders/{id} - gets a sender by ID
func (h *SenderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := senderIDFromRequest(w, r)
	if !ok {
		return
	}

	sender, err := h.senderService.GetSender(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, sender)
}

// Update handles PUT /senders/{id} - updates a sender
func (h *SenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := senderIDFromRequest(w, r)
	if !ok {
		return
	}

	var req service.UpdateSenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	sender, err := h.senderService.UpdateSender(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, sender)
}

// Delete handles DELETE /senders/{id} - deletes a sender
func (h *SenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := senderIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.senderService.DeleteSender(r.Context(), id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"message": "Sender deleted"})
}

// senderIDFromRequest extracts and validates the {id} path variable
func senderIDFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		WriteValidationError(w, "invalid sender ID format")
		return 0, false
	}
	if id <= 0 {
		WriteValidationError(w, "sender ID must be greater than 0")
		return 0, false
	}
	return id, true
}
