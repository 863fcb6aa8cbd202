package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swami-pg/backend/platform/go/identity"
)

// Profile carries the signup-supplied fields the linker may persist.
type Profile struct {
	Name  string
	Phone string
}

// Linker attaches a freshly created principal to its tenant record: either
// the one an admin pre-provisioned by email, or a new pending record.
type Linker struct {
	repo    Repository
	logger  *zap.Logger
	metrics Metrics
}

// NewLinker constructs a Linker.
func NewLinker(repo Repository, logger *zap.Logger, metrics Metrics) *Linker {
	if repo == nil {
		panic("identity repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Linker{repo: repo, logger: logger, metrics: metrics}
}

// LinkOrCreate runs once, immediately after account creation. When an admin
// already provisioned a tenant record with this email, that record is linked
// (auth_uid set, phone backfilled only if the record had none); otherwise a
// new pending record is created at the principal's id. The two paths are
// mutually exclusive, which is what keeps one email from ever owning two
// tenant records.
func (l *Linker) LinkOrCreate(ctx context.Context, principal identity.Principal, profile Profile) (TenantRecord, error) {
	email := NormalizeEmail(principal.Email)

	existing, err := l.repo.TenantsByEmail(ctx, email)
	if err != nil {
		// Never fall through to create on a failed lookup: that is how a
		// pre-provisioned tenant ends up duplicated. The principal stays
		// unlinked and resolves to Unbound until the lookup succeeds.
		return TenantRecord{}, fmt.Errorf("%w: link lookup: %v", ErrStoreUnavailable, err)
	}

	if len(existing) > 0 {
		rec := existing[0]

		var phone *string
		if trimmed := strings.TrimSpace(profile.Phone); rec.Phone == "" && trimmed != "" {
			phone = &trimmed
			rec.Phone = trimmed
		}

		if err := l.repo.LinkTenant(ctx, rec.ID, principal.UID, phone); err != nil {
			return TenantRecord{}, fmt.Errorf("%w: link tenant %s: %v", ErrStoreUnavailable, rec.ID, err)
		}

		rec.AuthUID = principal.UID
		l.logger.Info("linked principal to pre-provisioned tenant",
			zap.String("tenant_id", rec.ID),
			zap.String("uid", principal.UID),
		)
		l.metrics.RecordSignupLink(true)
		return rec, nil
	}

	rec := TenantRecord{
		ID:     principal.UID,
		Name:   strings.TrimSpace(profile.Name),
		Email:  email,
		Phone:  strings.TrimSpace(profile.Phone),
		Status: StatusPending,
	}
	if err := l.repo.CreateTenant(ctx, rec); err != nil {
		return TenantRecord{}, fmt.Errorf("%w: create tenant: %v", ErrStoreUnavailable, err)
	}

	l.logger.Info("created pending tenant for new principal", zap.String("uid", principal.UID))
	l.metrics.RecordSignupLink(false)
	return rec, nil
}
