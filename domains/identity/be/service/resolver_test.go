package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swami-pg/backend/platform/go/identity"
)

type mockRepository struct {
	adminExistsFn      func(ctx context.Context, uid string) (bool, error)
	tenantByIDFn       func(ctx context.Context, id string) (TenantRecord, bool, error)
	tenantsByAuthUIDFn func(ctx context.Context, uid string) ([]TenantRecord, error)
	tenantsByEmailFn   func(ctx context.Context, email string) ([]TenantRecord, error)
	allTenantsFn       func(ctx context.Context) ([]TenantRecord, error)
	tenantByPhoneFn    func(ctx context.Context, phone string) (TenantRecord, bool, error)
	linkTenantFn       func(ctx context.Context, id, authUID string, phone *string) error
	createTenantFn     func(ctx context.Context, rec TenantRecord) error
}

func (m *mockRepository) AdminExists(ctx context.Context, uid string) (bool, error) {
	if m.adminExistsFn == nil {
		return false, nil
	}
	return m.adminExistsFn(ctx, uid)
}

func (m *mockRepository) TenantByID(ctx context.Context, id string) (TenantRecord, bool, error) {
	if m.tenantByIDFn == nil {
		return TenantRecord{}, false, nil
	}
	return m.tenantByIDFn(ctx, id)
}

func (m *mockRepository) TenantsByAuthUID(ctx context.Context, uid string) ([]TenantRecord, error) {
	if m.tenantsByAuthUIDFn == nil {
		return nil, nil
	}
	return m.tenantsByAuthUIDFn(ctx, uid)
}

func (m *mockRepository) TenantsByEmail(ctx context.Context, email string) ([]TenantRecord, error) {
	if m.tenantsByEmailFn == nil {
		return nil, nil
	}
	return m.tenantsByEmailFn(ctx, email)
}

func (m *mockRepository) AllTenants(ctx context.Context) ([]TenantRecord, error) {
	if m.allTenantsFn == nil {
		return nil, nil
	}
	return m.allTenantsFn(ctx)
}

func (m *mockRepository) TenantByPhone(ctx context.Context, phone string) (TenantRecord, bool, error) {
	if m.tenantByPhoneFn == nil {
		return TenantRecord{}, false, nil
	}
	return m.tenantByPhoneFn(ctx, phone)
}

func (m *mockRepository) LinkTenant(ctx context.Context, id, authUID string, phone *string) error {
	if m.linkTenantFn == nil {
		panic("linkTenantFn not configured")
	}
	return m.linkTenantFn(ctx, id, authUID, phone)
}

func (m *mockRepository) CreateTenant(ctx context.Context, rec TenantRecord) error {
	if m.createTenantFn == nil {
		panic("createTenantFn not configured")
	}
	return m.createTenantFn(ctx, rec)
}

func TestResolveSignedOut(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockRepository{}, nil, nil)

	session, err := resolver.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, RoleNone, session.Role)
	require.Nil(t, session.Principal)
	require.Nil(t, session.Tenant)
}

func TestResolveAdminBeatsTenant(t *testing.T) {
	t.Parallel()

	// A dataset error gave this principal both records; admin must win.
	repository := &mockRepository{
		adminExistsFn: func(ctx context.Context, uid string) (bool, error) {
			return true, nil
		},
		tenantByIDFn: func(ctx context.Context, id string) (TenantRecord, bool, error) {
			return TenantRecord{ID: id}, true, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1", Email: "a@b.com"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, session.Role)
	require.Nil(t, session.Tenant)
	require.Equal(t, MatchAdminRecord, session.ResolvedVia)
}

func TestResolveTenantByID(t *testing.T) {
	t.Parallel()

	scanRan := false
	repository := &mockRepository{
		tenantByIDFn: func(ctx context.Context, id string) (TenantRecord, bool, error) {
			require.Equal(t, "u1", id)
			return TenantRecord{ID: "u1", Email: "a@b.com"}, true, nil
		},
		allTenantsFn: func(ctx context.Context) ([]TenantRecord, error) {
			scanRan = true
			return nil, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1", Email: "a@b.com"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleTenant, session.Role)
	require.Equal(t, "u1", session.Tenant.ID)
	require.Equal(t, MatchTenantByID, session.ResolvedVia)
	require.False(t, scanRan, "id match must not trigger the collection scan")
}

func TestResolveTenantByAuthUIDFirstMatchWins(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		tenantsByAuthUIDFn: func(ctx context.Context, uid string) ([]TenantRecord, error) {
			return []TenantRecord{{ID: "t1", AuthUID: uid}, {ID: "t2", AuthUID: uid}}, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleTenant, session.Role)
	require.Equal(t, "t1", session.Tenant.ID)
	require.Equal(t, MatchTenantAuthUID, session.ResolvedVia)
}

func TestResolveTenantByEmailScan(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		allTenantsFn: func(ctx context.Context) ([]TenantRecord, error) {
			return []TenantRecord{
				{ID: "t1", Email: "other@x.com"},
				// Legacy record with admin-entered casing and padding.
				{ID: "t2", Email: " John@X.com "},
			}, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1", Email: "john@x.com"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleTenant, session.Role)
	require.Equal(t, "t2", session.Tenant.ID)
	require.Equal(t, MatchTenantEmail, session.ResolvedVia)
}

func TestResolveEmailScanSkippedWithoutEmail(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		allTenantsFn: func(ctx context.Context) ([]TenantRecord, error) {
			t.Fatal("scan must not run for a principal without an email")
			return nil, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleUnbound, session.Role)
}

func TestResolveUnbound(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(&mockRepository{}, nil, nil)
	principal := &identity.Principal{UID: "u1", Email: "nobody@x.com"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	require.Equal(t, RoleUnbound, session.Role)
	require.Nil(t, session.Tenant)
	require.True(t, session.For("u1"))
	require.False(t, session.For("u2"))
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		tenantsByAuthUIDFn: func(ctx context.Context, uid string) ([]TenantRecord, error) {
			return []TenantRecord{{ID: "t1", AuthUID: uid}}, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1", Email: "a@b.com"}

	first, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), principal)
	require.NoError(t, err)

	require.Equal(t, first.Role, second.Role)
	require.Equal(t, first.Tenant.ID, second.Tenant.ID)
}

func TestResolveStoreFailureFailsClosed(t *testing.T) {
	t.Parallel()

	repository := &mockRepository{
		adminExistsFn: func(ctx context.Context, uid string) (bool, error) {
			return false, errors.New("store unreachable")
		},
		tenantByIDFn: func(ctx context.Context, id string) (TenantRecord, bool, error) {
			t.Fatal("cascade must abort at the first failing lookup")
			return TenantRecord{}, false, nil
		},
	}

	resolver := NewResolver(repository, nil, nil)
	principal := &identity.Principal{UID: "u1"}

	session, err := resolver.Resolve(context.Background(), principal)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	// Distinct from signed-out: the principal stays on the session but the
	// role stays None so the UI can say "something went wrong".
	require.Equal(t, RoleNone, session.Role)
	require.NotNil(t, session.Principal)
}
