package service

import (
	"context"
	"regexp"
	"strings"
)

// IdentifierKind tags the classifier outcome.
type IdentifierKind int

const (
	// IdentifierInvalid is neither an email nor a plausible phone number.
	IdentifierInvalid IdentifierKind = iota
	// IdentifierEmail is passed to the provider's sign-in as-is.
	IdentifierEmail
	// IdentifierPhone needs a store lookup to find the email on record.
	IdentifierPhone
)

// Identifier is the classified form of a user-supplied login string.
type Identifier struct {
	Kind IdentifierKind
	// Value is the trimmed email, or the phone normalized to its last 10
	// digits (country-code prefixes stripped).
	Value string
}

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneCharPattern = regexp.MustCompile(`[\s\-()+]`)
	digitsPattern    = regexp.MustCompile(`^[0-9]{10,13}$`)
)

// ClassifyIdentifier decides whether a login string is an email or a phone
// number. Phone detection runs first on the stripped form so "+91 98765
// 43210" is not mistaken for a malformed email.
func ClassifyIdentifier(raw string) Identifier {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identifier{Kind: IdentifierInvalid}
	}

	stripped := phoneCharPattern.ReplaceAllString(trimmed, "")
	if digitsPattern.MatchString(stripped) {
		return Identifier{Kind: IdentifierPhone, Value: stripped[len(stripped)-10:]}
	}

	if emailPattern.MatchString(trimmed) {
		return Identifier{Kind: IdentifierEmail, Value: trimmed}
	}

	return Identifier{Kind: IdentifierInvalid}
}

// Normalizer resolves a login identifier to the email the identity provider
// expects. It performs no writes; it is a lookup chain with ordered fallback.
type Normalizer struct {
	repo    Repository
	metrics Metrics
}

// NewNormalizer constructs a Normalizer.
func NewNormalizer(repo Repository, metrics Metrics) *Normalizer {
	if repo == nil {
		panic("identity repository is required")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Normalizer{repo: repo, metrics: metrics}
}

// ResolveToEmail maps identifier to a sign-in email. Emails pass through.
// Phones are looked up under the three storage conventions seen in the data:
// bare 10 digits, then "+91" prefixed, then "91" prefixed; the first hit
// wins. ErrPhoneNotFound means the phone is unknown; ErrSignupRequired means
// a tenant record holds the phone but carries no email to sign in with.
func (n *Normalizer) ResolveToEmail(ctx context.Context, identifier string) (string, error) {
	id := ClassifyIdentifier(identifier)
	switch id.Kind {
	case IdentifierEmail:
		n.metrics.RecordIdentifierLookup("email")
		return id.Value, nil
	case IdentifierPhone:
		return n.resolvePhone(ctx, id.Value)
	default:
		n.metrics.RecordIdentifierLookup("invalid")
		return "", ErrInvalidIdentifier
	}
}

func (n *Normalizer) resolvePhone(ctx context.Context, phone string) (string, error) {
	for _, stored := range []string{phone, "+91" + phone, "91" + phone} {
		rec, found, err := n.repo.TenantByPhone(ctx, stored)
		if err != nil {
			return "", err
		}
		if !found {
			continue
		}
		if rec.Email == "" {
			n.metrics.RecordIdentifierLookup("signup_required")
			return "", ErrSignupRequired
		}
		n.metrics.RecordIdentifierLookup("phone")
		return rec.Email, nil
	}

	n.metrics.RecordIdentifierLookup("not_found")
	return "", ErrPhoneNotFound
}
