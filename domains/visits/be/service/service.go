// Package service implements visit requests: prospective tenants book a
// property visit from the public site, admins follow them up.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Domain sentinel errors.
var (
	ErrNotFound          = errors.New("visit request not found")
	ErrInvalidTransition = errors.New("invalid visit status transition")
)

// Visit request statuses as stored.
const (
	StatusNew       = "New"
	StatusContacted = "Contacted"
	StatusCompleted = "Completed"
)

// Slots a visitor can pick from.
var Slots = []string{
	"Morning 10:00 AM - 12:00 PM",
	"Afternoon 2:00 PM - 4:00 PM",
	"Evening 5:00 PM - 7:00 PM",
}

// allowedTransitions is the follow-up machine. Completed is terminal.
var allowedTransitions = map[string][]string{
	StatusNew:       {StatusContacted, StatusCompleted},
	StatusContacted: {StatusCompleted, StatusNew},
	StatusCompleted: nil,
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

// VisitRequest is one prospective tenant's booking.
type VisitRequest struct {
	ID         string
	Name       string
	Phone      string
	PropertyID string
	Slot       string
	Note       string
	Status     string
}

// CreateInput is the public payload for booking a visit.
type CreateInput struct {
	Name       string
	Phone      string
	PropertyID string
	Slot       string
	Note       string
}

// Repository abstracts persistence for visit requests.
type Repository interface {
	List(ctx context.Context) ([]VisitRequest, error)
	Get(ctx context.Context, id string) (VisitRequest, error)
	Create(ctx context.Context, v VisitRequest) (VisitRequest, error)
	SetStatus(ctx context.Context, id, status string) (VisitRequest, error)
}

// Service provides visit request operations.
type Service struct {
	repo Repository
}

// New constructs a Service.
func New(repo Repository) *Service {
	if repo == nil {
		panic("visits repository is required")
	}
	return &Service{repo: repo}
}

// List returns visit requests for the admin view, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, status string) ([]VisitRequest, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return all, nil
	}

	out := make([]VisitRequest, 0, len(all))
	for _, v := range all {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

// Create validates and files a new visit request in New state. It is the one
// unauthenticated write in the system, so validation stays strict.
func (s *Service) Create(ctx context.Context, input CreateInput) (VisitRequest, error) {
	fieldErrors := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		fieldErrors.add("name", "name must be at least 2 characters")
	}
	if !isTenDigits(strings.TrimSpace(input.Phone)) {
		fieldErrors.add("phone", "phone must be a 10-digit number")
	}
	if input.PropertyID == "" {
		fieldErrors.add("propertyId", "propertyId is required")
	}
	if !validSlot(input.Slot) {
		fieldErrors.add("slot", "slot must be one of "+strings.Join(Slots, ", "))
	}

	if len(fieldErrors) > 0 {
		return VisitRequest{}, &ValidationError{Fields: fieldErrors}
	}

	return s.repo.Create(ctx, VisitRequest{
		Name:       name,
		Phone:      strings.TrimSpace(input.Phone),
		PropertyID: input.PropertyID,
		Slot:       input.Slot,
		Note:       strings.TrimSpace(input.Note),
		Status:     StatusNew,
	})
}

// SetStatus moves a visit request through the follow-up machine.
func (s *Service) SetStatus(ctx context.Context, id, status string) (VisitRequest, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return VisitRequest{}, err
	}
	if !transitionAllowed(v.Status, status) {
		return VisitRequest{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, v.Status, status)
	}
	return s.repo.SetStatus(ctx, id, status)
}

func validSlot(slot string) bool {
	for _, s := range Slots {
		if s == slot {
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

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
