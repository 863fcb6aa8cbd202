package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swami-pg/backend/platform/go/identity"
)

// Matcher names, exposed so callers and metrics can reason about which stage
// of the cascade bound the role.
const (
	MatchAdminRecord   = "admin-record"
	MatchTenantByID    = "tenant-by-id"
	MatchTenantAuthUID = "tenant-by-auth-uid"
	MatchTenantEmail   = "tenant-by-email-scan"
)

// matchResult is the outcome of a single matcher attempt.
type matchResult struct {
	matched bool
	role    Role
	tenant  *TenantRecord
}

// matcher is one stage of the resolution cascade. Priority is the order of
// the matchers slice, not control flow inside them.
type matcher struct {
	name string
	run  func(ctx context.Context, p identity.Principal) (matchResult, error)
}

// Resolver determines the role of an authenticated principal. Resolution is
// a pure read cascade; link repair happens only in the Linker.
type Resolver struct {
	repo     Repository
	logger   *zap.Logger
	metrics  Metrics
	matchers []matcher
}

// NewResolver constructs a Resolver with the cascade in priority order:
// admin record, tenant keyed by principal id, tenant linked via auth_uid,
// then the case-insensitive email scan of the whole collection.
func NewResolver(repo Repository, logger *zap.Logger, metrics Metrics) *Resolver {
	if repo == nil {
		panic("identity repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}

	r := &Resolver{repo: repo, logger: logger, metrics: metrics}
	r.matchers = []matcher{
		{name: MatchAdminRecord, run: r.matchAdmin},
		{name: MatchTenantByID, run: r.matchTenantByID},
		{name: MatchTenantAuthUID, run: r.matchTenantByAuthUID},
		{name: MatchTenantEmail, run: r.matchTenantByEmailScan},
	}
	return r
}

// Resolve maps a principal to exactly one role. A nil principal resolves to
// RoleNone immediately. Any store failure aborts the cascade and resolves to
// RoleNone with a non-nil error so callers can distinguish "please log in"
// from "something went wrong".
func (r *Resolver) Resolve(ctx context.Context, principal *identity.Principal) (Session, error) {
	if principal == nil {
		return Session{Role: RoleNone}, nil
	}

	for _, m := range r.matchers {
		res, err := m.run(ctx, *principal)
		if err != nil {
			r.logger.Error("role resolution aborted",
				zap.String("matcher", m.name),
				zap.String("uid", principal.UID),
				zap.Error(err),
			)
			return Session{Principal: principal, Role: RoleNone},
				fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, m.name, err)
		}
		if !res.matched {
			continue
		}

		r.metrics.RecordResolution(res.role, m.name)
		return Session{
			Principal:   principal,
			Role:        res.role,
			Tenant:      res.tenant,
			ResolvedVia: m.name,
		}, nil
	}

	r.logger.Warn("no admin or tenant record for principal",
		zap.String("uid", principal.UID),
		zap.String("email", principal.Email),
	)
	r.metrics.RecordResolution(RoleUnbound, "")
	return Session{Principal: principal, Role: RoleUnbound}, nil
}

func (r *Resolver) matchAdmin(ctx context.Context, p identity.Principal) (matchResult, error) {
	ok, err := r.repo.AdminExists(ctx, p.UID)
	if err != nil {
		return matchResult{}, err
	}
	if !ok {
		return matchResult{}, nil
	}
	return matchResult{matched: true, role: RoleAdmin}, nil
}

func (r *Resolver) matchTenantByID(ctx context.Context, p identity.Principal) (matchResult, error) {
	rec, found, err := r.repo.TenantByID(ctx, p.UID)
	if err != nil {
		return matchResult{}, err
	}
	if !found {
		return matchResult{}, nil
	}
	return matchResult{matched: true, role: RoleTenant, tenant: &rec}, nil
}

func (r *Resolver) matchTenantByAuthUID(ctx context.Context, p identity.Principal) (matchResult, error) {
	recs, err := r.repo.TenantsByAuthUID(ctx, p.UID)
	if err != nil {
		return matchResult{}, err
	}
	if len(recs) == 0 {
		return matchResult{}, nil
	}
	if len(recs) > 1 {
		// Data-quality problem, not a resolver problem: first match wins.
		r.logger.Warn("multiple tenants share one auth_uid",
			zap.String("uid", p.UID),
			zap.Int("count", len(recs)),
		)
	}
	return matchResult{matched: true, role: RoleTenant, tenant: &recs[0]}, nil
}

// matchTenantByEmailScan is the expensive last resort: a full collection scan
// comparing emails case-insensitively. It only recovers accounts whose
// stored email casing never matched the provider's, so it runs solely when
// everything cheaper has missed.
func (r *Resolver) matchTenantByEmailScan(ctx context.Context, p identity.Principal) (matchResult, error) {
	if strings.TrimSpace(p.Email) == "" {
		return matchResult{}, nil
	}

	r.metrics.RecordEmailScanFallback()
	recs, err := r.repo.AllTenants(ctx)
	if err != nil {
		return matchResult{}, err
	}

	want := NormalizeEmail(p.Email)
	for i := range recs {
		if NormalizeEmail(recs[i].Email) == want {
			return matchResult{matched: true, role: RoleTenant, tenant: &recs[i]}, nil
		}
	}
	return matchResult{}, nil
}

// NormalizeEmail lower-cases and trims an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
