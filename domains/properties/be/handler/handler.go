// Package handler exposes the properties domain over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swami-pg/backend/domains/properties/be/service"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
	"github.com/swami-pg/backend/platform/go/problem"
)

// Handler wires the properties service to HTTP routes.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("properties service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the public property endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/properties", h.list)
	r.Get("/properties/{propertyID}", h.get)
	r.Get("/areas", h.areas)
}

// AdminRoutes mounts the admin-only property endpoints.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/properties", h.create)
	r.Patch("/properties/{propertyID}", h.update)
}

type propertyResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Area           string   `json:"area"`
	Address        string   `json:"address,omitempty"`
	Description    string   `json:"description,omitempty"`
	TotalBeds      int      `json:"totalBeds"`
	OccupiedBeds   int      `json:"occupiedBeds"`
	AvailableBeds  int      `json:"availableBeds"`
	Rent           float64  `json:"rent"`
	Deposit        float64  `json:"deposit"`
	Amenities      []string `json:"amenities,omitempty"`
	ImageURLs      []string `json:"imageUrls,omitempty"`
	ShowOnHomepage bool     `json:"showOnHomepage"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	opts := service.ListOptions{
		Area:         r.URL.Query().Get("area"),
		HomepageOnly: r.URL.Query().Get("homepage") == "true",
	}

	props, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, toPropertyResponse(p))
	}
	problem.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toPropertyResponse(p))
}

func (h *Handler) areas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.Areas(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if areas == nil {
		areas = []string{}
	}
	problem.WriteJSON(w, http.StatusOK, map[string][]string{"areas": areas})
}

type createRequest struct {
	Name           string   `json:"name"`
	Area           string   `json:"area"`
	Address        string   `json:"address"`
	Description    string   `json:"description"`
	TotalBeds      int      `json:"totalBeds"`
	Rent           float64  `json:"rent"`
	Deposit        float64  `json:"deposit"`
	Amenities      []string `json:"amenities"`
	ImageURLs      []string `json:"imageUrls"`
	ShowOnHomepage bool     `json:"showOnHomepage"`
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

	p, err := h.svc.Create(r.Context(), service.CreateInput{
		Name:           req.Name,
		Area:           req.Area,
		Address:        req.Address,
		Description:    req.Description,
		TotalBeds:      req.TotalBeds,
		Rent:           req.Rent,
		Deposit:        req.Deposit,
		Amenities:      req.Amenities,
		ImageURLs:      req.ImageURLs,
		ShowOnHomepage: req.ShowOnHomepage,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusCreated, toPropertyResponse(p))
}

type updateRequest struct {
	Name           *string   `json:"name"`
	Area           *string   `json:"area"`
	Address        *string   `json:"address"`
	Description    *string   `json:"description"`
	TotalBeds      *int      `json:"totalBeds"`
	Rent           *float64  `json:"rent"`
	Deposit        *float64  `json:"deposit"`
	Amenities      *[]string `json:"amenities"`
	ImageURLs      *[]string `json:"imageUrls"`
	ShowOnHomepage *bool     `json:"showOnHomepage"`
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

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "propertyID"), service.UpdateInput{
		Name:           req.Name,
		Area:           req.Area,
		Address:        req.Address,
		Description:    req.Description,
		TotalBeds:      req.TotalBeds,
		Rent:           req.Rent,
		Deposit:        req.Deposit,
		Amenities:      req.Amenities,
		ImageURLs:      req.ImageURLs,
		ShowOnHomepage: req.ShowOnHomepage,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	problem.WriteJSON(w, http.StatusOK, toPropertyResponse(p))
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
			Type: problem.TypeNotFound, Title: "Property not found",
			Status: http.StatusNotFound,
		})
	default:
		logger.Error("properties request failed", zap.Error(err))
		problem.Write(w, problem.Details{
			Type: problem.TypeInternal, Title: "Internal error",
			Status: http.StatusInternalServerError,
		})
	}
}

func toPropertyResponse(p service.Property) propertyResponse {
	return propertyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Area:           p.Area,
		Address:        p.Address,
		Description:    p.Description,
		TotalBeds:      p.TotalBeds,
		OccupiedBeds:   p.OccupiedBeds,
		AvailableBeds:  p.AvailableBeds,
		Rent:           p.Rent,
		Deposit:        p.Deposit,
		Amenities:      p.Amenities,
		ImageURLs:      p.ImageURLs,
		ShowOnHomepage: p.ShowOnHomepage,
	}
}
