package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/swami-pg/backend/platform/go/identity"
)

// FieldErrors maps request fields to validation issues.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is returned when a signup payload is invalid.
type ValidationError struct {
	Fields FieldErrors
}

func (v *ValidationError) Error() string {
	return "validation error"
}

var tenPhonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// SignUpInput is the payload for account creation.
type SignUpInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// SignUp validates the payload, creates the provider account, and runs the
// linker exactly once before the caller routes the user into the tenant
// area. A provider failure leaves nothing to clean up; a linker store
// failure leaves the principal created but unlinked, which the resolver
// classifies as Unbound on the next login — the correct, recoverable state.
type SignUp struct {
	provider identity.Provider
	linker   *Linker
}

// NewSignUp constructs the signup flow.
func NewSignUp(provider identity.Provider, linker *Linker) *SignUp {
	if provider == nil {
		panic("identity provider is required")
	}
	if linker == nil {
		panic("linker is required")
	}
	return &SignUp{provider: provider, linker: linker}
}

// Run performs the full signup: validate, create account, link or create the
// tenant record.
func (s *SignUp) Run(ctx context.Context, input SignUpInput) (TenantRecord, error) {
	if err := validateSignUp(input); err != nil {
		return TenantRecord{}, err
	}

	principal, err := s.provider.CreateAccount(ctx,
		NormalizeEmail(input.Email),
		input.Password,
		strings.TrimSpace(input.Name),
	)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return TenantRecord{}, ErrEmailTaken
		}
		return TenantRecord{}, err
	}

	return s.linker.LinkOrCreate(ctx, principal, Profile{
		Name:  input.Name,
		Phone: input.Phone,
	})
}

func validateSignUp(input SignUpInput) error {
	fieldErrors := FieldErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors.add("name", "name is required")
	} else if len(name) < 2 {
		fieldErrors.add("name", "name must be at least 2 characters")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fieldErrors.add("email", "email is required")
	} else if !emailPattern.MatchString(email) {
		fieldErrors.add("email", "email is not valid")
	}

	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		fieldErrors.add("phone", "phone is required")
	} else if !tenPhonePattern.MatchString(phone) {
		fieldErrors.add("phone", "phone must be 10 digits")
	}

	if input.Password == "" {
		fieldErrors.add("password", "password is required")
	} else if len(input.Password) < 6 {
		fieldErrors.add("password", "password must be at least 6 characters")
	}

	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}
