// Package service implements the properties domain: the public listing with
// computed bed availability, and the admin CRUD behind it.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned when no property exists under the given id.
var ErrNotFound = errors.New("property not found")

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is returned when the input payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

// Property is the domain view of a property document. OccupiedBeds and
// AvailableBeds are derived, never stored.
type Property struct {
	ID             string
	Name           string
	Area           string
	Address        string
	Description    string
	TotalBeds      int
	OccupiedBeds   int
	AvailableBeds  int
	Rent           float64
	Deposit        float64
	Amenities      []string
	ImageURLs      []string
	ShowOnHomepage bool
}

// ListOptions filters the public listing.
type ListOptions struct {
	// Area filters to one area; empty means all areas.
	Area string
	// HomepageOnly drops properties hidden from the homepage.
	HomepageOnly bool
}

// CreateInput is the admin payload for a new property.
type CreateInput struct {
	Name           string
	Area           string
	Address        string
	Description    string
	TotalBeds      int
	Rent           float64
	Deposit        float64
	Amenities      []string
	ImageURLs      []string
	ShowOnHomepage bool
}

// UpdateInput carries the mutable fields; nil means unchanged.
type UpdateInput struct {
	Name           *string
	Area           *string
	Address        *string
	Description    *string
	TotalBeds      *int
	Rent           *float64
	Deposit        *float64
	Amenities      *[]string
	ImageURLs      *[]string
	ShowOnHomepage *bool
}

// Repository abstracts persistence for the properties domain.
type Repository interface {
	List(ctx context.Context) ([]Property, error)
	Get(ctx context.Context, id string) (Property, error)
	// CountActiveTenants returns how many Active tenants occupy the property.
	CountActiveTenants(ctx context.Context, propertyID string) (int, error)
	Create(ctx context.Context, p Property) (Property, error)
	Update(ctx context.Context, id string, input UpdateInput) (Property, error)
}

// Service provides property operations.
type Service struct {
	repo Repository
}

// New constructs a Service.
func New(repo Repository) *Service {
	if repo == nil {
		panic("properties repository is required")
	}
	return &Service{repo: repo}
}

// List returns properties with derived bed availability, optionally filtered
// by area and homepage visibility.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Property, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Property, 0, len(all))
	for _, p := range all {
		if opts.HomepageOnly && !p.ShowOnHomepage {
			continue
		}
		if opts.Area != "" && p.Area != opts.Area {
			continue
		}
		withBeds, err := s.deriveBeds(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, withBeds)
	}
	return out, nil
}

// Get returns one property with derived bed availability.
func (s *Service) Get(ctx context.Context, id string) (Property, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Property{}, err
	}
	return s.deriveBeds(ctx, p)
}

// Areas returns the distinct areas across all properties, sorted.
func (s *Service) Areas(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var areas []string
	for _, p := range all {
		area := strings.TrimSpace(p.Area)
		if area == "" {
			continue
		}
		if _, ok := seen[area]; ok {
			continue
		}
		seen[area] = struct{}{}
		areas = append(areas, area)
	}
	sort.Strings(areas)
	return areas, nil
}

// Create validates and persists a new property.
func (s *Service) Create(ctx context.Context, input CreateInput) (Property, error) {
	fieldErrors := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors.add("name", "name is required")
	}
	if strings.TrimSpace(input.Area) == "" {
		fieldErrors.add("area", "area is required")
	}
	if input.TotalBeds <= 0 {
		fieldErrors.add("totalBeds", "totalBeds must be positive")
	}
	if input.Rent < 0 {
		fieldErrors.add("rent", "rent cannot be negative")
	}

	if len(fieldErrors) > 0 {
		return Property{}, &ValidationError{Fields: fieldErrors}
	}

	return s.repo.Create(ctx, Property{
		Name:           name,
		Area:           strings.TrimSpace(input.Area),
		Address:        strings.TrimSpace(input.Address),
		Description:    strings.TrimSpace(input.Description),
		TotalBeds:      input.TotalBeds,
		Rent:           input.Rent,
		Deposit:        input.Deposit,
		Amenities:      input.Amenities,
		ImageURLs:      input.ImageURLs,
		ShowOnHomepage: input.ShowOnHomepage,
	})
}

// Update applies the provided fields to an existing property.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Property, error) {
	if input.TotalBeds != nil && *input.TotalBeds <= 0 {
		return Property{}, &ValidationError{Fields: FieldErrors{"totalBeds": {"totalBeds must be positive"}}}
	}
	return s.repo.Update(ctx, id, input)
}

// deriveBeds fills in occupancy. Occupied is clamped to the total so a
// migration artifact (more Active tenants than beds) never shows negative
// availability.
func (s *Service) deriveBeds(ctx context.Context, p Property) (Property, error) {
	occupied, err := s.repo.CountActiveTenants(ctx, p.ID)
	if err != nil {
		return Property{}, err
	}
	if occupied > p.TotalBeds {
		occupied = p.TotalBeds
	}
	p.OccupiedBeds = occupied
	p.AvailableBeds = p.TotalBeds - occupied
	return p, nil
}
