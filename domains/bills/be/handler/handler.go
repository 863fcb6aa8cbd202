// Package handler exposes billing over HTTP: a tenant-facing portal surface
// and the admin back-office.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/bills/be/service"
	platformauth "github.com/swami-pg/backend/platform/go/auth"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the billing service to HTTP routes.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("bills service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// TenantRoutes mounts the tenant portal endpoints.
func (h *Handler) TenantRoutes(r chi.Router) {
	r.Get("/bills", h.listMine)
	r.Post("/bills/{billID}/report-paid", h.reportPaid)
}

// AdminRoutes mounts the admin billing endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/bills", h.list)
	r.Post("/bills", h.create)
	r.Post("/bills/{billID}/status", h.setStatus)
}

type billResponse struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenantId"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	RentAmount  float64 `json:"rentAmount"`
	ExtraAmount float64 `json:"extraAmount"`
	ExtraNote   string  `json:"extraNote,omitempty"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.sessionTenantID(w, r)
	if !ok {
		return
	}

	bills, err := h.svc.ListForTenant(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toBillResponses(bills))
}

func (h *Handler) reportPaid(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.sessionTenantID(w, r)
	if !ok {
		return
	}

	bill, err := h.svc.ReportPaid(r.Context(), chi.URLParam(r, "billID"), tenantID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toBillResponse(bill))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))

	bills, err := h.svc.List(r.Context(), service.ListOptions{
		TenantID: q.Get("tenantId"),
		Status:   q.Get("status"),
		Month:    month,
		Year:     year,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toBillResponses(bills))
}

type createRequest struct {
	TenantID    string  `json:"tenantId"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	RentAmount  float64 `json:"rentAmount"`
	ExtraAmount float64 `json:"extraAmount"`
	ExtraNote   string  `json:"extraNote"`
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

	bill, err := h.svc.Create(r.Context(), service.CreateInput{
		TenantID:    req.TenantID,
		Month:       req.Month,
		Year:        req.Year,
		RentAmount:  req.RentAmount,
		ExtraAmount: req.ExtraAmount,
		ExtraNote:   req.ExtraNote,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusCreated, toBillResponse(bill))
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

	bill, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "billID"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toBillResponse(bill))
}

// sessionTenantID pulls the tenant record id from the resolved session. The
// tenant route group guarantees a tenant role, so a missing record is an
// internal inconsistency rather than a client error.
func (h *Handler) sessionTenantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := platformauth.SessionFromContext(r.Context())
	if !ok || session.Tenant == nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeUnauthorized, Title: "Not signed in as a tenant",
			Status: http.StatusUnauthorized,
		})
		return "", false
	}
	return session.Tenant.ID, true
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
			Type: problem.TypeNotFound, Title: "Bill not found",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrNotOwner):
		// Hide other tenants' bills rather than confirming they exist.
		problem.Write(w, problem.Details{
			Type: problem.TypeNotFound, Title: "Bill not found",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		problem.Write(w, problem.Details{
			Type: problem.TypeConflict, Title: "Invalid status change",
			Detail: err.Error(),
			Status: http.StatusConflict,
		})
	default:
		logger.Error("bills request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toBillResponses(bills []service.Bill) []billResponse {
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b))
	}
	return out
}

func toBillResponse(b service.Bill) billResponse {
	return billResponse{
		ID:          b.ID,
		TenantID:    b.TenantID,
		Month:       b.Month,
		Year:        b.Year,
		RentAmount:  b.RentAmount,
		ExtraAmount: b.ExtraAmount,
		ExtraNote:   b.ExtraNote,
		Total:       b.Total(),
		Status:      b.Status,
	}
}
