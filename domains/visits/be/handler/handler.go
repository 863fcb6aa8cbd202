// Package handler exposes visit requests over HTTP: public booking and the
// admin follow-up list.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/visits/be/service"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the visits service to HTTP routes.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("visits service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the public booking endpoint.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/visits", h.create)
}

// AdminRoutes mounts the admin follow-up endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/visits", h.list)
	r.Post("/visits/{visitID}/status", h.setStatus)
}

type visitResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PropertyID string `json:"propertyId"`
	Slot       string `json:"slot"`
	Note       string `json:"note,omitempty"`
	Status     string `json:"status"`
}

type createRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	PropertyID string `json:"propertyId"`
	Slot       string `json:"slot"`
	Note       string `json:"note"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	v, err := h.svc.Create(r.Context(), service.CreateInput{
		Name:       req.Name,
		Phone:      req.Phone,
		PropertyID: req.PropertyID,
		Slot:       req.Slot,
		Note:       req.Note,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusCreated, toVisitResponse(v))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	visits, err := h.svc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]visitResponse, 0, len(visits))
	for _, v := range visits {
		out = append(out, toVisitResponse(v))
	}
	problem.WriteJSON(w, http.StatusOK, out)
}

type statusRequest struct {
	Status string `json:"status"`
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

	v, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "visitID"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toVisitResponse(v))
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
			Type: problem.TypeNotFound, Title: "Visit request not found",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		problem.Write(w, problem.Details{
			Type: problem.TypeConflict, Title: "Invalid status change",
			Detail: err.Error(),
			Status: http.StatusConflict,
		})
	default:
		logger.Error("visits request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toVisitResponse(v service.VisitRequest) visitResponse {
	return visitResponse{
		ID:         v.ID,
		Name:       v.Name,
		Phone:      v.Phone,
		PropertyID: v.PropertyID,
		Slot:       v.Slot,
		Note:       v.Note,
		Status:     v.Status,
	}
}
