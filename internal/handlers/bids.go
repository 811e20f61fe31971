package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tenderhub/internal/models"
	"tenderhub/internal/service"
)

// Bid routes share the "id" path parameter: for /bids/{id}/list and
// /bids/{id}/reviews it is a tender id, everywhere else a bid id.

type createBidRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description" validate:"required,max=500"`
	TenderID    uuid.UUID         `json:"tenderId" validate:"required"`
	AuthorType  models.AuthorType `json:"authorType" validate:"required,oneof=Organization User"`
	AuthorID    uuid.UUID         `json:"authorId" validate:"required"`
}

// CreateBidHandler handles POST /api/bids/new.
func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	defer r.Body.Close()

	var req createBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}

	author := models.BidAuthor{Type: req.AuthorType, ID: req.AuthorID}
	bid, err := h.Bids.CreateBid(r.Context(), req.Name, req.Description, req.TenderID, author)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// GetUserBidsHandler handles GET /api/bids/my.
func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	bids, err := h.Bids.ListUserBids(r.Context(), username, params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// GetBidsForTenderHandler handles GET /api/bids/{id}/list.
func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid tenderId")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	bids, err := h.Bids.ListBidsForTender(r.Context(), tenderID, username, params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// GetBidStatusHandler handles GET /api/bids/{id}/status.
func (h *Handler) GetBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	status, err := h.Bids.GetBidStatus(r.Context(), bidID, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(status)})
}

// UpdateBidStatusHandler handles PUT /api/bids/{id}/status.
func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	username := r.URL.Query().Get("username")
	status := models.BidStatus(r.URL.Query().Get("status"))
	if username == "" || status == "" {
		badRequest(w, "missing status or username")
		return
	}
	if !status.Valid() {
		badRequest(w, "invalid status value")
		return
	}

	bid, err := h.Bids.UpdateBidStatus(r.Context(), bidID, status, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

type editBidRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// EditBidHandler handles PATCH /api/bids/{id}/edit.
func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	var req editBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	defer r.Body.Close()
	if err := h.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}

	bid, err := h.Bids.EditBid(r.Context(), bidID, username, service.BidPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// RollbackBidHandler handles PUT /api/bids/{id}/rollback/{version}.
func (h *Handler) RollbackBidHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		badRequest(w, "invalid version number")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	bid, err := h.Bids.RollbackBidVersion(r.Context(), bidID, version, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SubmitBidDecisionHandler handles PUT /api/bids/{id}/submit_decision.
func (h *Handler) SubmitBidDecisionHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	username := r.URL.Query().Get("username")
	decision := models.Decision(r.URL.Query().Get("decision"))
	if username == "" || decision == "" {
		badRequest(w, "missing decision or username")
		return
	}
	if !decision.Valid() {
		badRequest(w, "invalid decision value")
		return
	}

	bid, err := h.Bids.SubmitDecision(r.Context(), bidID, decision, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SubmitBidFeedbackHandler handles PUT /api/bids/{id}/feedback.
func (h *Handler) SubmitBidFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid bidId")
		return
	}
	username := r.URL.Query().Get("username")
	feedback := r.URL.Query().Get("bidFeedback")
	if username == "" || feedback == "" {
		badRequest(w, "missing username or bidFeedback")
		return
	}
	if len(feedback) > 1000 {
		badRequest(w, "bidFeedback exceeds 1000 characters")
		return
	}

	bid, err := h.Bids.SubmitFeedback(r.Context(), bidID, feedback, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// GetBidReviewsHandler handles GET /api/bids/{id}/reviews.
func (h *Handler) GetBidReviewsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	tenderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid tenderId")
		return
	}
	authorUsername := r.URL.Query().Get("authorUsername")
	requesterUsername := r.URL.Query().Get("requesterUsername")
	if authorUsername == "" || requesterUsername == "" {
		badRequest(w, "missing authorUsername or requesterUsername")
		return
	}

	reviews, err := h.Bids.GetReviewsForAuthor(r.Context(), tenderID, authorUsername, requesterUsername, params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
