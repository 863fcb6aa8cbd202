// Package service implements the tenant back-office: the admin-facing CRUD
// over tenant records, including pre-provisioning records that a later
// signup links to.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Domain sentinel errors.
var (
	ErrNotFound      = errors.New("tenant not found")
	ErrCodeTaken     = errors.New("tenant code already in use")
	ErrInvalidStatus = errors.New("invalid tenant status")
)

// Tenant lifecycle statuses as stored.
const (
	StatusPending = "pending"
	StatusActive  = "Active"
	StatusVacated = "Vacated"
)

// tenantCodePattern matches codes like SPG001 and captures the numeric part.
var tenantCodePattern = regexp.MustCompile(`^SPG(\d+)$`)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

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

// Tenant is the back-office view of a tenant record.
type Tenant struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	AuthUID    string
	TenantCode string
	PropertyID string
	RoomNumber string
	Status     string
	Rent       float64
	Deposit    float64
}

// ListOptions filters the admin tenant listing.
type ListOptions struct {
	Status     string
	PropertyID string
}

// CreateInput is the admin payload for pre-provisioning a tenant.
type CreateInput struct {
	Name       string
	Email      string
	Phone      string
	TenantCode string
	PropertyID string
	RoomNumber string
	Rent       float64
	Deposit    float64
}

// UpdateInput carries the mutable fields; nil means unchanged.
type UpdateInput struct {
	Name       *string
	Email      *string
	Phone      *string
	TenantCode *string
	PropertyID *string
	RoomNumber *string
	Status     *string
	Rent       *float64
	Deposit    *float64
}

// Repository abstracts persistence for the tenant back-office.
type Repository interface {
	List(ctx context.Context) ([]Tenant, error)
	Get(ctx context.Context, id string) (Tenant, error)
	// ByCode returns tenants whose tenant_code equals code exactly.
	ByCode(ctx context.Context, code string) ([]Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	Update(ctx context.Context, id string, input UpdateInput) (Tenant, error)
}

// Service provides tenant back-office operations.
type Service struct {
	repo Repository
}

// New constructs a Service.
func New(repo Repository) *Service {
	if repo == nil {
		panic("tenants repository is required")
	}
	return &Service{repo: repo}
}

// List returns tenants, optionally filtered by status and property.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Tenant, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Tenant, 0, len(all))
	for _, t := range all {
		if opts.Status != "" && t.Status != opts.Status {
			continue
		}
		if opts.PropertyID != "" && t.PropertyID != opts.PropertyID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Get returns one tenant by record id.
func (s *Service) Get(ctx context.Context, id string) (Tenant, error) {
	return s.repo.Get(ctx, id)
}

// NextTenantCode scans existing codes of the form SPG<number> and returns the
// next one, zero-padded to three digits. Codes that do not match the pattern
// are ignored rather than rejected, so legacy hand-entered codes cannot break
// the sequence.
func (s *Service) NextTenantCode(ctx context.Context) (string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}

	max := 0
	for _, t := range all {
		m := tenantCodePattern.FindStringSubmatch(strings.TrimSpace(t.TenantCode))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("SPG%03d", max+1), nil
}

// Create validates and pre-provisions a tenant record. The record starts
// Active with no auth_uid; a later signup with the same email links to it.
func (s *Service) Create(ctx context.Context, input CreateInput) (Tenant, error) {
	fieldErrors := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if len(name) < 2 {
		fieldErrors.add("name", "name must be at least 2 characters")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		fieldErrors.add("email", "a valid email is required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone != "" && !isTenDigits(phone) {
		fieldErrors.add("phone", "phone must be a 10-digit number")
	}
	code := strings.TrimSpace(input.TenantCode)
	if code == "" {
		fieldErrors.add("tenantCode", "tenantCode is required")
	}
	if input.Rent < 0 {
		fieldErrors.add("rent", "rent cannot be negative")
	}
	if input.Deposit < 0 {
		fieldErrors.add("deposit", "deposit cannot be negative")
	}

	if len(fieldErrors) > 0 {
		return Tenant{}, &ValidationError{Fields: fieldErrors}
	}

	existing, err := s.repo.ByCode(ctx, code)
	if err != nil {
		return Tenant{}, err
	}
	if len(existing) > 0 {
		return Tenant{}, ErrCodeTaken
	}

	return s.repo.Create(ctx, Tenant{
		Name:       name,
		Email:      email,
		Phone:      phone,
		TenantCode: code,
		PropertyID: strings.TrimSpace(input.PropertyID),
		RoomNumber: strings.TrimSpace(input.RoomNumber),
		Status:     StatusActive,
		Rent:       input.Rent,
		Deposit:    input.Deposit,
	})
}

// Update applies the provided fields to an existing tenant. Status changes
// are restricted to the known lifecycle values, and tenant codes stay unique.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Tenant, error) {
	if input.Status != nil {
		switch *input.Status {
		case StatusPending, StatusActive, StatusVacated:
		default:
			return Tenant{}, ErrInvalidStatus
		}
	}
	if input.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*input.Email))
		if !emailPattern.MatchString(normalized) {
			return Tenant{}, &ValidationError{Fields: FieldErrors{"email": {"a valid email is required"}}}
		}
		input.Email = &normalized
	}
	if input.Phone != nil && *input.Phone != "" && !isTenDigits(*input.Phone) {
		return Tenant{}, &ValidationError{Fields: FieldErrors{"phone": {"phone must be a 10-digit number"}}}
	}
	if input.TenantCode != nil {
		code := strings.TrimSpace(*input.TenantCode)
		if code == "" {
			return Tenant{}, &ValidationError{Fields: FieldErrors{"tenantCode": {"tenantCode is required"}}}
		}
		existing, err := s.repo.ByCode(ctx, code)
		if err != nil {
			return Tenant{}, err
		}
		for _, t := range existing {
			if t.ID != id {
				return Tenant{}, ErrCodeTaken
			}
		}
		input.TenantCode = &code
	}

	return s.repo.Update(ctx, id, input)
}

// Vacate marks a tenant as moved out, freeing the bed for availability
// computations.
func (s *Service) Vacate(ctx context.Context, id string) (Tenant, error) {
	status := StatusVacated
	return s.repo.Update(ctx, id, UpdateInput{Status: &status})
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
