package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Fake is an in-memory Provider for tests and local development.
type Fake struct {
	mu       sync.Mutex
	byEmail  map[string]Principal
	byToken  map[string]Principal
	nextFail error
}

// NewFake constructs an empty Fake provider.
func NewFake() *Fake {
	return &Fake{
		byEmail: make(map[string]Principal),
		byToken: make(map[string]Principal),
	}
}

// Register seeds an account and returns a bearer token that verifies to it.
func (f *Fake) Register(p Principal) (token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[strings.ToLower(p.Email)] = p
	token = "token-" + p.UID
	f.byToken[token] = p
	return token
}

// FailNext makes the next provider call return err.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextFail = err
}

func (f *Fake) VerifyToken(ctx context.Context, token string) (Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return Principal{}, err
	}
	p, ok := f.byToken[token]
	if !ok {
		return Principal{}, ErrInvalidToken
	}
	return p, nil
}

func (f *Fake) LookupByEmail(ctx context.Context, email string) (Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return Principal{}, err
	}
	p, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Principal{}, ErrNoAccount
	}
	return p, nil
}

func (f *Fake) CreateAccount(ctx context.Context, email, password, displayName string) (Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return Principal{}, err
	}
	key := strings.ToLower(strings.TrimSpace(email))
	if _, exists := f.byEmail[key]; exists {
		return Principal{}, ErrEmailTaken
	}
	p := Principal{UID: uuid.NewString(), Email: key}
	f.byEmail[key] = p
	f.byToken["token-"+p.UID] = p
	return p, nil
}

func (f *Fake) takeFailure() error {
	err := f.nextFail
	f.nextFail = nil
	return err
}
