package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tenderhub/internal/apperrors"
	"tenderhub/internal/models"
	"tenderhub/internal/service"
)

// TenderService is the tender lifecycle surface the handlers depend on.
type TenderService interface {
	ListTenders(ctx context.Context, serviceTypes []models.ServiceType, limit, offset int) ([]models.Tender, error)
	CreateTender(ctx context.Context, name, description string, serviceType models.ServiceType, organizationID uuid.UUID, creatorUsername string) (*models.Tender, error)
	ListUserTenders(ctx context.Context, username string, limit, offset int) ([]models.Tender, error)
	GetTenderStatus(ctx context.Context, tenderID uuid.UUID, username string) (models.TenderStatus, error)
	UpdateTenderStatus(ctx context.Context, tenderID uuid.UUID, status models.TenderStatus, username string) (models.TenderStatus, error)
	EditTender(ctx context.Context, tenderID uuid.UUID, username string, patch service.TenderPatch) (*models.Tender, error)
	RollbackTender(ctx context.Context, tenderID uuid.UUID, version int, username string) (*models.Tender, error)
}

// BidService is the bid lifecycle surface the handlers depend on.
type BidService interface {
	CreateBid(ctx context.Context, name, description string, tenderID uuid.UUID, author models.BidAuthor) (*models.Bid, error)
	ListUserBids(ctx context.Context, username string, limit, offset int) ([]models.Bid, error)
	ListBidsForTender(ctx context.Context, tenderID uuid.UUID, username string, limit, offset int) ([]models.Bid, error)
	GetBidStatus(ctx context.Context, bidID uuid.UUID, username string) (models.BidStatus, error)
	UpdateBidStatus(ctx context.Context, bidID uuid.UUID, status models.BidStatus, username string) (*models.Bid, error)
	EditBid(ctx context.Context, bidID uuid.UUID, username string, patch service.BidPatch) (*models.Bid, error)
	RollbackBidVersion(ctx context.Context, bidID uuid.UUID, version int, username string) (*models.Bid, error)
	SubmitDecision(ctx context.Context, bidID uuid.UUID, decision models.Decision, username string) (*models.Bid, error)
	SubmitFeedback(ctx context.Context, bidID uuid.UUID, text, username string) (*models.Bid, error)
	GetReviewsForAuthor(ctx context.Context, tenderID uuid.UUID, authorUsername, requesterUsername string, limit, offset int) ([]models.BidFeedback, error)
}

type Handler struct {
	Tenders  TenderService
	Bids     BidService
	validate *validator.Validate
}

func NewHandler(tenders TenderService, bids BidService) *Handler {
	return &Handler{
		Tenders:  tenders,
		Bids:     bids,
		validate: validator.New(),
	}
}

// PingHandler answers the healthcheck with a literal "ok" body.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type reasonResponse struct {
	Reason string `json:"reason"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, reason string) {
	writeJSON(w, http.StatusBadRequest, reasonResponse{Reason: reason})
}

// writeError maps the service error taxonomy to response categories. All
// errors are terminal for the request; nothing is retried.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUserNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrTenderNotFound),
		errors.Is(err, apperrors.ErrBidNotFound),
		errors.Is(err, apperrors.ErrTenderOrBidNotFound),
		errors.Is(err, apperrors.ErrRollbackTargetNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, reasonResponse{Reason: err.Error()})
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams reads limit and offset with the defaults and caps the
// API contract sets: limit 5 by default, at most 50.
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 5, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			params.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}
