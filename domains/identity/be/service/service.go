// Package service implements the identity domain: role resolution for
// authenticated principals, tenant-record linking at sign-up, and login
// identifier normalization.
package service

import (
	"context"
	"errors"

	"github.com/swami-pg/backend/platform/go/identity"
)

// Domain sentinel errors.
var (
	// ErrStoreUnavailable wraps document-store failures; resolution fails
	// closed instead of guessing a role.
	ErrStoreUnavailable = errors.New("identity: store unavailable")
	// ErrInvalidIdentifier is returned for login identifiers that are
	// neither an email nor a plausible phone number.
	ErrInvalidIdentifier = errors.New("identity: invalid login identifier")
	// ErrPhoneNotFound is returned when a phone number matches no tenant.
	ErrPhoneNotFound = errors.New("identity: phone not on record")
	// ErrSignupRequired is returned when a tenant record matches the lookup
	// but the tenant has never created login credentials.
	ErrSignupRequired = errors.New("identity: tenant has not signed up")
	// ErrEmailTaken is returned on sign-up when the email already has an account.
	ErrEmailTaken = errors.New("identity: email already registered")
)

// Role classifies what a signed-in principal is allowed to see.
type Role string

const (
	// RoleNone means signed out, or resolution aborted on a store failure.
	RoleNone Role = "none"
	// RoleAdmin marks back-office operators.
	RoleAdmin Role = "admin"
	// RoleTenant marks a principal bound to a tenant record.
	RoleTenant Role = "tenant"
	// RoleUnbound marks a signed-in principal with no admin or tenant
	// record. Recoverable by admin action, surfaced as "contact admin".
	RoleUnbound Role = "unbound"
)

// Tenant statuses as stored.
const (
	StatusPending = "pending"
	StatusActive  = "Active"
	StatusVacated = "Vacated"
)

// TenantRecord is the domain view of a tenant document.
type TenantRecord struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	AuthUID    string
	Status     string
	PropertyID string
	TenantCode string
	Rent       float64
	Deposit    float64
}

// Session is the outcome of role resolution for one principal. It is a
// value, recomputed wholesale on every authentication-state change; callers
// replace it rather than mutating fields.
type Session struct {
	Principal *identity.Principal
	Role      Role
	Tenant    *TenantRecord
	// ResolvedVia names the matcher that produced the role, for logs and
	// for discarding completions that belong to a superseded principal.
	ResolvedVia string
}

// For reports whether this session was resolved for the given principal id.
// Callers use it to drop stale cascade results after a rapid sign-out/sign-in.
func (s Session) For(uid string) bool {
	return s.Principal != nil && s.Principal.UID == uid
}

// Repository abstracts the document-store lookups and writes the identity
// domain performs.
type Repository interface {
	// AdminExists reports whether an admin document exists at the given id.
	AdminExists(ctx context.Context, uid string) (bool, error)
	// TenantByID returns the tenant document keyed by id, if present.
	TenantByID(ctx context.Context, id string) (TenantRecord, bool, error)
	// TenantsByAuthUID returns tenants whose auth_uid field equals uid.
	TenantsByAuthUID(ctx context.Context, uid string) ([]TenantRecord, error)
	// TenantsByEmail returns tenants whose stored email equals email exactly.
	TenantsByEmail(ctx context.Context, email string) ([]TenantRecord, error)
	// AllTenants returns every tenant document. Last-resort fallback only.
	AllTenants(ctx context.Context) ([]TenantRecord, error)
	// TenantByPhone returns the first tenant whose phone equals phone as stored.
	TenantByPhone(ctx context.Context, phone string) (TenantRecord, bool, error)
	// LinkTenant sets auth_uid on an existing tenant document, backfilling
	// phone when one is supplied.
	LinkTenant(ctx context.Context, id, authUID string, phone *string) error
	// CreateTenant writes a new tenant document keyed by rec.ID.
	CreateTenant(ctx context.Context, rec TenantRecord) error
}

// Metrics receives domain counters. Implementations must be safe for
// concurrent use; a no-op implementation backs tests.
type Metrics interface {
	RecordResolution(role Role, via string)
	RecordEmailScanFallback()
	RecordSignupLink(linkedExisting bool)
	RecordIdentifierLookup(outcome string)
}

// NopMetrics discards all counters.
type NopMetrics struct{}

func (NopMetrics) RecordResolution(Role, string)  {}
func (NopMetrics) RecordEmailScanFallback()       {}
func (NopMetrics) RecordSignupLink(bool)          {}
func (NopMetrics) RecordIdentifierLookup(string)  {}
