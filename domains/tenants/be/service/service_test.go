package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	ListFn   func(ctx context.Context) ([]Tenant, error)
	GetFn    func(ctx context.Context, id string) (Tenant, error)
	ByCodeFn func(ctx context.Context, code string) ([]Tenant, error)
	CreateFn func(ctx context.Context, t Tenant) (Tenant, error)
	UpdateFn func(ctx context.Context, id string, input UpdateInput) (Tenant, error)
}

func (m *mockRepository) List(ctx context.Context) ([]Tenant, error) {
	if m.ListFn == nil {
		panic("List not configured")
	}
	return m.ListFn(ctx)
}

func (m *mockRepository) Get(ctx context.Context, id string) (Tenant, error) {
	if m.GetFn == nil {
		panic("Get not configured")
	}
	return m.GetFn(ctx, id)
}

func (m *mockRepository) ByCode(ctx context.Context, code string) ([]Tenant, error) {
	if m.ByCodeFn == nil {
		panic("ByCode not configured")
	}
	return m.ByCodeFn(ctx, code)
}

func (m *mockRepository) Create(ctx context.Context, t Tenant) (Tenant, error) {
	if m.CreateFn == nil {
		panic("Create not configured")
	}
	return m.CreateFn(ctx, t)
}

func (m *mockRepository) Update(ctx context.Context, id string, input UpdateInput) (Tenant, error) {
	if m.UpdateFn == nil {
		panic("Update not configured")
	}
	return m.UpdateFn(ctx, id, input)
}

func TestNextTenantCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tenants []Tenant
		want    string
	}{
		{
			name:    "empty store starts at one",
			tenants: nil,
			want:    "SPG001",
		},
		{
			name: "increments past the highest",
			tenants: []Tenant{
				{TenantCode: "SPG001"},
				{TenantCode: "SPG007"},
				{TenantCode: "SPG003"},
			},
			want: "SPG008",
		},
		{
			name: "ignores codes outside the pattern",
			tenants: []Tenant{
				{TenantCode: "SPG002"},
				{TenantCode: "OLD-44"},
				{TenantCode: ""},
			},
			want: "SPG003",
		},
		{
			name: "keeps counting past three digits",
			tenants: []Tenant{
				{TenantCode: "SPG999"},
			},
			want: "SPG1000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockRepository{
				ListFn: func(ctx context.Context) ([]Tenant, error) { return tc.tenants, nil },
			}
			code, err := New(repo).NextTenantCode(context.Background())
			require.NoError(t, err)
			require.Equal(t, tc.want, code)
		})
	}
}

func TestCreateNormalizesAndPersists(t *testing.T) {
	t.Parallel()

	var created Tenant
	repo := &mockRepository{
		ByCodeFn: func(ctx context.Context, code string) ([]Tenant, error) { return nil, nil },
		CreateFn: func(ctx context.Context, rec Tenant) (Tenant, error) {
			created = rec
			rec.ID = "t1"
			return rec, nil
		},
	}

	rec, err := New(repo).Create(context.Background(), CreateInput{
		Name:       " Ravi Kumar ",
		Email:      " Ravi.K@Example.COM ",
		Phone:      "9876543210",
		TenantCode: "SPG004",
		Rent:       8500,
		Deposit:    15000,
	})
	require.NoError(t, err)
	require.Equal(t, "t1", rec.ID)
	require.Equal(t, "ravi.k@example.com", created.Email)
	require.Equal(t, "Ravi Kumar", created.Name)
	require.Equal(t, StatusActive, created.Status)
	require.Empty(t, created.AuthUID)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ByCodeFn: func(ctx context.Context, code string) ([]Tenant, error) {
			return []Tenant{{ID: "other", TenantCode: code}}, nil
		},
	}

	_, err := New(repo).Create(context.Background(), CreateInput{
		Name:       "Ravi Kumar",
		Email:      "ravi@example.com",
		Phone:      "9876543210",
		TenantCode: "SPG004",
	})
	require.ErrorIs(t, err, ErrCodeTaken)
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	_, err := New(&mockRepository{}).Create(context.Background(), CreateInput{
		Name:    "R",
		Email:   "not-an-email",
		Phone:   "12345",
		Rent:    -1,
		Deposit: -1,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "name")
	require.Contains(t, validationErr.Fields, "email")
	require.Contains(t, validationErr.Fields, "phone")
	require.Contains(t, validationErr.Fields, "tenantCode")
	require.Contains(t, validationErr.Fields, "rent")
	require.Contains(t, validationErr.Fields, "deposit")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	status := "Evicted"
	_, err := New(&mockRepository{}).Update(context.Background(), "t1", UpdateInput{Status: &status})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateAllowsKeepingOwnCode(t *testing.T) {
	t.Parallel()

	code := "SPG004"
	repo := &mockRepository{
		ByCodeFn: func(ctx context.Context, c string) ([]Tenant, error) {
			return []Tenant{{ID: "t1", TenantCode: c}}, nil
		},
		UpdateFn: func(ctx context.Context, id string, input UpdateInput) (Tenant, error) {
			return Tenant{ID: id, TenantCode: *input.TenantCode}, nil
		},
	}

	rec, err := New(repo).Update(context.Background(), "t1", UpdateInput{TenantCode: &code})
	require.NoError(t, err)
	require.Equal(t, "SPG004", rec.TenantCode)
}

func TestUpdateRejectsCodeHeldByAnotherTenant(t *testing.T) {
	t.Parallel()

	code := "SPG004"
	repo := &mockRepository{
		ByCodeFn: func(ctx context.Context, c string) ([]Tenant, error) {
			return []Tenant{{ID: "other", TenantCode: c}}, nil
		},
	}

	_, err := New(repo).Update(context.Background(), "t1", UpdateInput{TenantCode: &code})
	require.ErrorIs(t, err, ErrCodeTaken)
}

func TestListFiltersByStatusAndProperty(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Tenant, error) {
			return []Tenant{
				{ID: "t1", Status: StatusActive, PropertyID: "p1"},
				{ID: "t2", Status: StatusVacated, PropertyID: "p1"},
				{ID: "t3", Status: StatusActive, PropertyID: "p2"},
			}, nil
		},
	}

	out, err := New(repo).List(context.Background(), ListOptions{Status: StatusActive, PropertyID: "p1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "t1", out[0].ID)
}

func TestVacateSetsVacatedStatus(t *testing.T) {
	t.Parallel()

	var gotStatus *string
	repo := &mockRepository{
		UpdateFn: func(ctx context.Context, id string, input UpdateInput) (Tenant, error) {
			gotStatus = input.Status
			return Tenant{ID: id, Status: *input.Status}, nil
		},
	}

	rec, err := New(repo).Vacate(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, StatusVacated, rec.Status)
	require.NotNil(t, gotStatus)
}
