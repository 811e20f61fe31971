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

// GetTendersHandler handles GET /api/tenders.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	var serviceTypes []models.ServiceType
	for _, v := range r.URL.Query()["service_type"] {
		st := models.ServiceType(v)
		if !st.Valid() {
			badRequest(w, "invalid service_type value")
			return
		}
		serviceTypes = append(serviceTypes, st)
	}

	tenders, err := h.Tenders.ListTenders(r.Context(), serviceTypes, params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenders)
}

type createTenderRequest struct {
	Name            string             `json:"name" validate:"required,max=100"`
	Description     string             `json:"description" validate:"required,max=500"`
	ServiceType     models.ServiceType `json:"serviceType" validate:"required,oneof=Construction Delivery Manufacture"`
	OrganizationID  uuid.UUID          `json:"organizationId" validate:"required"`
	CreatorUsername string             `json:"creatorUsername" validate:"required"`
}

// CreateTenderHandler handles POST /api/tenders/new.
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	defer r.Body.Close()

	var req createTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}

	tender, err := h.Tenders.CreateTender(r.Context(),
		req.Name, req.Description, req.ServiceType, req.OrganizationID, req.CreatorUsername)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

// GetUserTendersHandler handles GET /api/tenders/my.
func (h *Handler) GetUserTendersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	tenders, err := h.Tenders.ListUserTenders(r.Context(), username, params.Limit, params.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenders)
}

// GetTenderStatusHandler handles GET /api/tenders/{tenderId}/status.
func (h *Handler) GetTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "tenderId"))
	if err != nil {
		badRequest(w, "invalid tenderId")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	status, err := h.Tenders.GetTenderStatus(r.Context(), tenderID, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(status)})
}

// UpdateTenderStatusHandler handles PUT /api/tenders/{tenderId}/status.
func (h *Handler) UpdateTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "tenderId"))
	if err != nil {
		badRequest(w, "invalid tenderId")
		return
	}
	username := r.URL.Query().Get("username")
	status := models.TenderStatus(r.URL.Query().Get("status"))
	if username == "" || status == "" {
		badRequest(w, "missing status or username")
		return
	}
	if !status.Valid() {
		badRequest(w, "invalid status value")
		return
	}

	updated, err := h.Tenders.UpdateTenderStatus(r.Context(), tenderID, status, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(updated)})
}

type editTenderRequest struct {
	Name        *string             `json:"name" validate:"omitempty,max=100"`
	Description *string             `json:"description" validate:"omitempty,max=500"`
	ServiceType *models.ServiceType `json:"serviceType" validate:"omitempty,oneof=Construction Delivery Manufacture"`
}

// EditTenderHandler handles PATCH /api/tenders/{tenderId}/edit.
func (h *Handler) EditTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "tenderId"))
	if err != nil {
		badRequest(w, "invalid tenderId")
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		badRequest(w, "missing username parameter")
		return
	}

	var req editTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	defer r.Body.Close()
	if err := h.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}

	tender, err := h.Tenders.EditTender(r.Context(), tenderID, username, service.TenderPatch{
		Name:        req.Name,
		Description: req.Description,
		ServiceType: req.ServiceType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

// RollbackTenderHandler handles PUT /api/tenders/{tenderId}/rollback/{version}.
func (h *Handler) RollbackTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuid.Parse(chi.URLParam(r, "tenderId"))
	if err != nil {
		badRequest(w, "invalid tenderId")
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

	tender, err := h.Tenders.RollbackTender(r.Context(), tenderID, version, username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}
