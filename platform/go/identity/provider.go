// Package identity adapts the external identity provider (Firebase Auth)
// behind the narrow surface the rest of the application consumes.
package identity

import (
	"context"
	"errors"
)

// Errors returned by Provider implementations.
var (
	// ErrNoAccount signals that no account exists for the given lookup.
	ErrNoAccount = errors.New("no account for identity")
	// ErrEmailTaken signals that an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken signals a token that failed verification.
	ErrInvalidToken = errors.New("invalid identity token")
)

// Principal is an authenticated identity issued by the provider: a stable
// unique id plus the email it was registered with, when one exists.
type Principal struct {
	UID   string
	Email string
}

// Provider is the identity-provider surface the application depends on.
type Provider interface {
	// VerifyToken validates a bearer token and returns its principal.
	VerifyToken(ctx context.Context, token string) (Principal, error)
	// LookupByEmail returns the principal registered with email, or ErrNoAccount.
	LookupByEmail(ctx context.Context, email string) (Principal, error)
	// CreateAccount registers a new principal. Returns ErrEmailTaken when the
	// email is already registered.
	CreateAccount(ctx context.Context, email, password, displayName string) (Principal, error)
}
