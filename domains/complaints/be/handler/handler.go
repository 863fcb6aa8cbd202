// Package handler exposes complaints over HTTP for tenants and admins.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/complaints/be/service"
	platformauth "github.com/swami-pg/backend/platform/go/auth"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the complaints service to HTTP routes.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("complaints service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// TenantRoutes mounts the tenant portal endpoints.
func (h *Handler) TenantRoutes(r chi.Router) {
	r.Get("/complaints", h.listMine)
	r.Post("/complaints", h.create)
}

// AdminRoutes mounts the admin endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/complaints", h.list)
	r.Post("/complaints/{complaintID}/status", h.setStatus)
}

type complaintResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenantId"`
	PropertyID  string `json:"propertyId,omitempty"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AdminNote   string `json:"adminNote,omitempty"`
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	session, ok := platformauth.SessionFromContext(r.Context())
	if !ok || session.Tenant == nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeUnauthorized, Title: "Not signed in as a tenant",
			Status: http.StatusUnauthorized,
		})
		return
	}

	complaints, err := h.svc.ListForTenant(r.Context(), session.Tenant.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toComplaintResponses(complaints))
}

type createRequest struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	session, ok := platformauth.SessionFromContext(r.Context())
	if !ok || session.Tenant == nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeUnauthorized, Title: "Not signed in as a tenant",
			Status: http.StatusUnauthorized,
		})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	c, err := h.svc.Create(r.Context(), service.CreateInput{
		TenantID:    session.Tenant.ID,
		PropertyID:  session.Tenant.PropertyID,
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusCreated, toComplaintResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.svc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toComplaintResponses(complaints))
}

type statusRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"adminNote"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	c, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "complaintID"), req.Status, req.AdminNote)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toComplaintResponse(c))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := platformlogging.FromRequest(r, h.logger)

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Validation failed",
			Status: http.StatusBadRequest, Errors: validationErr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		problem.Write(w, problem.Details{
			Type: problem.TypeNotFound, Title: "Complaint not found",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		problem.Write(w, problem.Details{
			Type: problem.TypeConflict, Title: "Invalid status change",
			Detail: err.Error(),
			Status: http.StatusConflict,
		})
	default:
		logger.Error("complaints request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toComplaintResponses(complaints []service.Complaint) []complaintResponse {
	out := make([]complaintResponse, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, toComplaintResponse(c))
	}
	return out
}

func toComplaintResponse(c service.Complaint) complaintResponse {
	return complaintResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		PropertyID:  c.PropertyID,
		Category:    c.Category,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		AdminNote:   c.AdminNote,
	}
}
