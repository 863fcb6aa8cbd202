package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	ListFn         func(ctx context.Context) ([]Complaint, error)
	ListByTenantFn func(ctx context.Context, tenantID string) ([]Complaint, error)
	GetFn          func(ctx context.Context, id string) (Complaint, error)
	CreateFn       func(ctx context.Context, c Complaint) (Complaint, error)
	SetStatusFn    func(ctx context.Context, id, status, adminNote string) (Complaint, error)
}

func (m *mockRepository) List(ctx context.Context) ([]Complaint, error) {
	if m.ListFn == nil {
		panic("List not configured")
	}
	return m.ListFn(ctx)
}

func (m *mockRepository) ListByTenant(ctx context.Context, tenantID string) ([]Complaint, error) {
	if m.ListByTenantFn == nil {
		panic("ListByTenant not configured")
	}
	return m.ListByTenantFn(ctx, tenantID)
}

func (m *mockRepository) Get(ctx context.Context, id string) (Complaint, error) {
	if m.GetFn == nil {
		panic("Get not configured")
	}
	return m.GetFn(ctx, id)
}

func (m *mockRepository) Create(ctx context.Context, c Complaint) (Complaint, error) {
	if m.CreateFn == nil {
		panic("Create not configured")
	}
	return m.CreateFn(ctx, c)
}

func (m *mockRepository) SetStatus(ctx context.Context, id, status, adminNote string) (Complaint, error) {
	if m.SetStatusFn == nil {
		panic("SetStatus not configured")
	}
	return m.SetStatusFn(ctx, id, status, adminNote)
}

func TestCreateStartsOpen(t *testing.T) {
	t.Parallel()

	var created Complaint
	repo := &mockRepository{
		CreateFn: func(ctx context.Context, c Complaint) (Complaint, error) {
			created = c
			c.ID = "c1"
			return c, nil
		},
	}

	_, err := New(repo).Create(context.Background(), CreateInput{
		TenantID:    "t1",
		Category:    "Maintenance",
		Title:       "  Leaking tap  ",
		Description: "The bathroom tap leaks all night.",
	})
	require.NoError(t, err)
	require.Equal(t, StatusOpen, created.Status)
	require.Equal(t, "Leaking tap", created.Title)
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	_, err := New(&mockRepository{}).Create(context.Background(), CreateInput{
		Category: "Parking",
		Title:    " ",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "tenantId")
	require.Contains(t, validationErr.Fields, "category")
	require.Contains(t, validationErr.Fields, "title")
	require.Contains(t, validationErr.Fields, "description")
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusResolved, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusOpen, true},
		{StatusResolved, StatusOpen, true},
		{StatusResolved, StatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			t.Parallel()

			repo := &mockRepository{
				GetFn: func(ctx context.Context, id string) (Complaint, error) {
					return Complaint{ID: id, Status: tc.from}, nil
				},
				SetStatusFn: func(ctx context.Context, id, status, adminNote string) (Complaint, error) {
					return Complaint{ID: id, Status: status, AdminNote: adminNote}, nil
				},
			}

			c, err := New(repo).SetStatus(context.Background(), "c1", tc.to, "checked")
			if tc.allowed {
				require.NoError(t, err)
				require.Equal(t, tc.to, c.Status)
			} else {
				require.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Complaint, error) {
			return []Complaint{
				{ID: "c1", Status: StatusOpen},
				{ID: "c2", Status: StatusResolved},
			}, nil
		},
	}

	out, err := New(repo).List(context.Background(), StatusOpen)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "c1", out[0].ID)
}
