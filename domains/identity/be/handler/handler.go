// Package handler exposes the identity domain over HTTP: signup, login
// identifier resolution, and the resolved-session endpoint.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/identity/be/service"
	platformauth "github.com/swami-pg/backend/platform/go/auth"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the identity services to HTTP routes.
type Handler struct {
	signUp     *service.SignUp
	normalizer *service.Normalizer
	logger     *zap.Logger
}

// New constructs a Handler.
func New(signUp *service.SignUp, normalizer *service.Normalizer, logger *zap.Logger) *Handler {
	if signUp == nil {
		panic("signup service is required")
	}
	if normalizer == nil {
		panic("normalizer is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{signUp: signUp, normalizer: normalizer, logger: logger}
}

// Routes mounts the public identity endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/auth/signup", h.postSignup)
	r.Post("/auth/identifier", h.postIdentifier)
}

// SessionRoutes mounts the endpoints that need an authenticated principal.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Get("/auth/session", h.getSession)
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type tenantResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Status     string  `json:"status"`
	PropertyID *string `json:"propertyId"`
	TenantCode string  `json:"tenantCode,omitempty"`
	Rent       float64 `json:"rent"`
	Deposit    float64 `json:"deposit"`
}

func (h *Handler) postSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	rec, err := h.signUp.Run(r.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	problem.WriteJSON(w, http.StatusCreated, toTenantResponse(rec))
}

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

type identifierResponse struct {
	Email string `json:"email"`
}

func (h *Handler) postIdentifier(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	email, err := h.normalizer.ResolveToEmail(r.Context(), req.Identifier)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	problem.WriteJSON(w, http.StatusOK, identifierResponse{Email: email})
}

type sessionResponse struct {
	UID    string          `json:"uid"`
	Email  string          `json:"email,omitempty"`
	Role   string          `json:"role"`
	Tenant *tenantResponse `json:"tenant,omitempty"`
}

// getSession returns the resolved session for the calling principal. Unbound
// principals get a 200 with role "unbound" so the client can show the
// "contact admin" state instead of treating it as an error.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := platformauth.SessionFromContext(r.Context())
	if !ok || session.Principal == nil {
		problem.Write(w, problem.Details{
			Type: problem.TypeUnauthorized, Title: "Not signed in",
			Status: http.StatusUnauthorized,
		})
		return
	}

	resp := sessionResponse{
		UID:   session.Principal.UID,
		Email: session.Principal.Email,
		Role:  string(session.Role),
	}
	if session.Tenant != nil {
		t := toTenantResponse(*session.Tenant)
		resp.Tenant = &t
	}

	problem.WriteJSON(w, http.StatusOK, resp)
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
	case errors.Is(err, service.ErrInvalidIdentifier):
		problem.Write(w, problem.Details{
			Type: problem.TypeValidation, Title: "Invalid login identifier",
			Detail: "enter the email or 10-digit phone number on file",
			Status: http.StatusBadRequest,
		})
	case errors.Is(err, service.ErrPhoneNotFound):
		problem.Write(w, problem.Details{
			Type: problem.TypeNotFound, Title: "Phone not on record",
			Detail: "no tenant is registered with this phone number",
			Status: http.StatusNotFound,
		})
	case errors.Is(err, service.ErrSignupRequired):
		problem.Write(w, problem.Details{
			Type: problem.TypeSignupRequired, Title: "Sign up required",
			Detail: "this phone is on file but the tenant has not created login credentials yet",
			Status: http.StatusConflict,
		})
	case errors.Is(err, service.ErrEmailTaken):
		problem.Write(w, problem.Details{
			Type: problem.TypeConflict, Title: "Email already registered",
			Detail: "an account with this email already exists; log in instead",
			Status: http.StatusConflict,
		})
	case errors.Is(err, service.ErrStoreUnavailable):
		logger.Error("identity store unavailable", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeUnavailable, Title: "Service unavailable",
			Detail: "please try again",
			Status: http.StatusServiceUnavailable,
		})
	default:
		logger.Error("identity request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toTenantResponse(rec service.TenantRecord) tenantResponse {
	resp := tenantResponse{
		ID:         rec.ID,
		Name:       rec.Name,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Status:     rec.Status,
		TenantCode: rec.TenantCode,
		Rent:       rec.Rent,
		Deposit:    rec.Deposit,
	}
	if rec.PropertyID != "" {
		resp.PropertyID = &rec.PropertyID
	}
	return resp
}
