// Package service implements tenant complaints: tenants raise them, admins
// work them through Open, InProgress, and Resolved.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Domain sentinel errors.
var (
	ErrNotFound          = errors.New("complaint not found")
	ErrInvalidTransition = errors.New("invalid complaint status transition")
)

// Complaint statuses as stored.
const (
	StatusOpen       = "Open"
	StatusInProgress = "InProgress"
	StatusResolved   = "Resolved"
)

// Complaint categories accepted from tenants.
var Categories = []string{"Electrical", "Water", "Cleaning", "Maintenance", "Other"}

// allowedTransitions is the complaint status machine. Resolved complaints can
// be reopened when the fix did not hold.
var allowedTransitions = map[string][]string{
	StatusOpen:       {StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved, StatusOpen},
	StatusResolved:   {StatusOpen},
}

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

// Complaint is one tenant-raised issue.
type Complaint struct {
	ID          string
	TenantID    string
	PropertyID  string
	Category    string
	Title       string
	Description string
	Status      string
	AdminNote   string
}

// CreateInput is the tenant payload for raising a complaint.
type CreateInput struct {
	TenantID    string
	PropertyID  string
	Category    string
	Title       string
	Description string
}

// Repository abstracts persistence for complaints.
type Repository interface {
	List(ctx context.Context) ([]Complaint, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Complaint, error)
	Get(ctx context.Context, id string) (Complaint, error)
	Create(ctx context.Context, c Complaint) (Complaint, error)
	SetStatus(ctx context.Context, id, status, adminNote string) (Complaint, error)
}

// Service provides complaint operations.
type Service struct {
	repo Repository
}

// New constructs a Service.
func New(repo Repository) *Service {
	if repo == nil {
		panic("complaints repository is required")
	}
	return &Service{repo: repo}
}

// List returns complaints for the admin view, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Complaint, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}

	out := make([]Complaint, 0, len(all))
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

// ListForTenant returns the complaints one tenant has raised.
func (s *Service) ListForTenant(ctx context.Context, tenantID string) ([]Complaint, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Create validates and files a new complaint in Open state.
func (s *Service) Create(ctx context.Context, input CreateInput) (Complaint, error) {
	fieldErrors := FieldErrors{}

	if input.TenantID == "" {
		fieldErrors.add("tenantId", "tenantId is required")
	}
	if !validCategory(input.Category) {
		fieldErrors.add("category", "category must be one of "+strings.Join(Categories, ", "))
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		fieldErrors.add("title", "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		fieldErrors.add("description", "description is required")
	}

	if len(fieldErrors) > 0 {
		return Complaint{}, &ValidationError{Fields: fieldErrors}
	}

	return s.repo.Create(ctx, Complaint{
		TenantID:    input.TenantID,
		PropertyID:  input.PropertyID,
		Category:    input.Category,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      StatusOpen,
	})
}

// SetStatus moves a complaint through the status machine, optionally
// recording an admin note.
func (s *Service) SetStatus(ctx context.Context, id, status, adminNote string) (Complaint, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Complaint{}, err
	}
	if !transitionAllowed(c.Status, status) {
		return Complaint{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, c.Status, status)
	}
	return s.repo.SetStatus(ctx, id, status, adminNote)
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
