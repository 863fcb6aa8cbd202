// Package service implements monthly rent billing: admins raise bills,
// tenants report payment, admins verify.
package service

import (
	"context"
	"errors"
	"fmt"
)

// Domain sentinel errors.
var (
	ErrNotFound          = errors.New("bill not found")
	ErrNotOwner          = errors.New("bill belongs to another tenant")
	ErrInvalidTransition = errors.New("invalid bill status transition")
)

// Bill statuses as stored.
const (
	StatusPending      = "Pending"
	StatusReportedPaid = "ReportedPaid"
	StatusPaid         = "Paid"
	StatusOverdue      = "Overdue"
)

// allowedTransitions is the bill status machine. Paid is terminal.
var allowedTransitions = map[string][]string{
	StatusPending:      {StatusReportedPaid, StatusPaid, StatusOverdue},
	StatusReportedPaid: {StatusPaid, StatusPending},
	StatusOverdue:      {StatusReportedPaid, StatusPaid},
	StatusPaid:         nil,
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

// Bill is one month's rent bill for one tenant.
type Bill struct {
	ID          string
	TenantID    string
	Month       int
	Year        int
	RentAmount  float64
	ExtraAmount float64
	ExtraNote   string
	Status      string
}

// Total is the amount due.
func (b Bill) Total() float64 {
	return b.RentAmount + b.ExtraAmount
}

// ListOptions filters the admin bill listing.
type ListOptions struct {
	TenantID string
	Status   string
	Month    int
	Year     int
}

// CreateInput is the admin payload for raising a bill.
type CreateInput struct {
	TenantID    string
	Month       int
	Year        int
	RentAmount  float64
	ExtraAmount float64
	ExtraNote   string
}

// Repository abstracts persistence for bills.
type Repository interface {
	List(ctx context.Context) ([]Bill, error)
	ListByTenant(ctx context.Context, tenantID string) ([]Bill, error)
	Get(ctx context.Context, id string) (Bill, error)
	Create(ctx context.Context, b Bill) (Bill, error)
	SetStatus(ctx context.Context, id, status string) (Bill, error)
}

// Service provides billing operations.
type Service struct {
	repo Repository
}

// New constructs a Service.
func New(repo Repository) *Service {
	if repo == nil {
		panic("bills repository is required")
	}
	return &Service{repo: repo}
}

// List returns bills for the admin view, optionally filtered.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Bill, error) {
	var all []Bill
	var err error
	if opts.TenantID != "" {
		all, err = s.repo.ListByTenant(ctx, opts.TenantID)
	} else {
		all, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]Bill, 0, len(all))
	for _, b := range all {
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		if opts.Month != 0 && b.Month != opts.Month {
			continue
		}
		if opts.Year != 0 && b.Year != opts.Year {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// ListForTenant returns the bills of one tenant, for the tenant portal.
func (s *Service) ListForTenant(ctx context.Context, tenantID string) ([]Bill, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// Create validates and raises a new bill in Pending state.
func (s *Service) Create(ctx context.Context, input CreateInput) (Bill, error) {
	fieldErrors := FieldErrors{}

	if input.TenantID == "" {
		fieldErrors.add("tenantId", "tenantId is required")
	}
	if input.Month < 1 || input.Month > 12 {
		fieldErrors.add("month", "month must be between 1 and 12")
	}
	if input.Year < 2000 || input.Year > 2100 {
		fieldErrors.add("year", "year is out of range")
	}
	if input.RentAmount < 0 {
		fieldErrors.add("rentAmount", "rentAmount cannot be negative")
	}
	if input.ExtraAmount < 0 {
		fieldErrors.add("extraAmount", "extraAmount cannot be negative")
	}

	if len(fieldErrors) > 0 {
		return Bill{}, &ValidationError{Fields: fieldErrors}
	}

	return s.repo.Create(ctx, Bill{
		TenantID:    input.TenantID,
		Month:       input.Month,
		Year:        input.Year,
		RentAmount:  input.RentAmount,
		ExtraAmount: input.ExtraAmount,
		ExtraNote:   input.ExtraNote,
		Status:      StatusPending,
	})
}

// SetStatus moves a bill through the status machine as an admin.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Bill, error) {
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return Bill{}, err
	}
	if !transitionAllowed(bill.Status, status) {
		return Bill{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, bill.Status, status)
	}
	return s.repo.SetStatus(ctx, id, status)
}

// ReportPaid is the tenant-side action: mark their own Pending or Overdue
// bill as ReportedPaid, to be verified by an admin.
func (s *Service) ReportPaid(ctx context.Context, id, tenantID string) (Bill, error) {
	bill, err := s.repo.Get(ctx, id)
	if err != nil {
		return Bill{}, err
	}
	if bill.TenantID != tenantID {
		return Bill{}, ErrNotOwner
	}
	if !transitionAllowed(bill.Status, StatusReportedPaid) {
		return Bill{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, bill.Status, StatusReportedPaid)
	}
	return s.repo.SetStatus(ctx, id, StatusReportedPaid)
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
