// Package handler exposes the tenant back-office over HTTP. Every route here
// is admin-only.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/tenants/be/service"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the tenant back-office service to HTTP routes.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("tenants service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// AdminRoutes mounts the admin tenant endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/tenants", h.list)
	r.Get("/tenants/next-code", h.nextCode)
	r.Get("/tenants/{tenantID}", h.get)
	r.Post("/tenants", h.create)
	r.Patch("/tenants/{tenantID}", h.update)
	r.Post("/tenants/{tenantID}/vacate", h.vacate)
}

type tenantResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	AuthUID    string  `json:"authUid,omitempty"`
	TenantCode string  `json:"tenantCode"`
	PropertyID string  `json:"propertyId,omitempty"`
	RoomNumber string  `json:"roomNumber,omitempty"`
	Status     string  `json:"status"`
	Rent       float64 `json:"rent"`
	Deposit    float64 `json:"deposit"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	opts := service.ListOptions{
		Status:     r.URL.Query().Get("status"),
		PropertyID: r.URL.Query().Get("propertyId"),
	}

	tenants, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	problem.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

func (h *Handler) nextCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.svc.NextTenantCode(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, map[string]string{"tenantCode": code})
}

type createRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	TenantCode string  `json:"tenantCode"`
	PropertyID string  `json:"propertyId"`
	RoomNumber string  `json:"roomNumber"`
	Rent       float64 `json:"rent"`
	Deposit    float64 `json:"deposit"`
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

	t, err := h.svc.Create(r.Context(), service.CreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		TenantCode: req.TenantCode,
		PropertyID: req.PropertyID,
		RoomNumber: req.RoomNumber,
		Rent:       req.Rent,
		Deposit:    req.Deposit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusCreated, toTenantResponse(t))
}

type updateRequest struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	TenantCode *string  `json:"tenantCode"`
	PropertyID *string  `json:"propertyId"`
	RoomNumber *string  `json:"roomNumber"`
	Status     *string  `json:"status"`
	Rent       *float64 `json:"rent"`
	Deposit    *float64 `json:"deposit"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	t, err := h.svc.Update(r.Context(), chi.URLParam(r, "tenantID"), service.UpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		TenantCode: req.TenantCode,
		PropertyID: req.PropertyID,
		RoomNumber: req.RoomNumber,
		Status:     req.Status,
		Rent:       req.Rent,
		Deposit:    req.Deposit,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toTenantResponse(t))
}

func (h *Handler) vacate(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Vacate(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toTenantResponse(t))
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
			Type: problem.TypeNotFound, Title: "Tenant not found",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrCodeTaken):
		problem.Write(w, problem.Details{
			Type: problem.TypeConflict, Title: "Tenant code already in use",
			Status: http.StatusConflict,
		})
	case errors.Is(err, service.ErrInvalidStatus):
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid tenant status",
			Detail: "status must be pending, Active, or Vacated",
			Status: http.StatusBadRequest,
		})
	default:
		logger.Error("tenants request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toTenantResponse(t service.Tenant) tenantResponse {
	return tenantResponse{
		ID:         t.ID,
		Name:       t.Name,
		Email:      t.Email,
		Phone:      t.Phone,
		AuthUID:    t.AuthUID,
		TenantCode: t.TenantCode,
		PropertyID: t.PropertyID,
		RoomNumber: t.RoomNumber,
		Status:     t.Status,
		Rent:       t.Rent,
		Deposit:    t.Deposit,
	}
}
