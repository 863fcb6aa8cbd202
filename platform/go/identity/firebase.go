package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseProvider implements Provider on top of the Firebase Auth admin SDK.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebase constructs a FirebaseProvider.
func NewFirebase(client *auth.Client) *FirebaseProvider {
	if client == nil {
		panic("firebase auth client is required")
	}
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (Principal, error) {
	t, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := t.Claims["email"].(string)
	return Principal{UID: t.UID, Email: email}, nil
}

func (p *FirebaseProvider) LookupByEmail(ctx context.Context, email string) (Principal, error) {
	user, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return Principal{}, ErrNoAccount
		}
		return Principal{}, fmt.Errorf("lookup account by email: %w", err)
	}
	return Principal{UID: user.UID, Email: user.Email}, nil
}

func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password, displayName string) (Principal, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return Principal{}, ErrEmailTaken
		}
		return Principal{}, fmt.Errorf("create account: %w", err)
	}
	return Principal{UID: user.UID, Email: user.Email}, nil
}
