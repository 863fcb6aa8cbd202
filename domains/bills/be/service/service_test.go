package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	ListFn         func(ctx context.Context) ([]Bill, error)
	ListByTenantFn func(ctx context.Context, tenantID string) ([]Bill, error)
	GetFn          func(ctx context.Context, id string) (Bill, error)
	CreateFn       func(ctx context.Context, b Bill) (Bill, error)
	SetStatusFn    func(ctx context.Context, id, status string) (Bill, error)
}

func (m *mockRepository) List(ctx context.Context) ([]Bill, error) {
	if m.ListFn == nil {
		panic("List not configured")
	}
	return m.ListFn(ctx)
}

func (m *mockRepository) ListByTenant(ctx context.Context, tenantID string) ([]Bill, error) {
	if m.ListByTenantFn == nil {
		panic("ListByTenant not configured")
	}
	return m.ListByTenantFn(ctx, tenantID)
}

func (m *mockRepository) Get(ctx context.Context, id string) (Bill, error) {
	if m.GetFn == nil {
		panic("Get not configured")
	}
	return m.GetFn(ctx, id)
}

func (m *mockRepository) Create(ctx context.Context, b Bill) (Bill, error) {
	if m.CreateFn == nil {
		panic("Create not configured")
	}
	return m.CreateFn(ctx, b)
}

func (m *mockRepository) SetStatus(ctx context.Context, id, status string) (Bill, error) {
	if m.SetStatusFn == nil {
		panic("SetStatus not configured")
	}
	return m.SetStatusFn(ctx, id, status)
}

func repoWithBill(b Bill) *mockRepository {
	return &mockRepository{
		GetFn: func(ctx context.Context, id string) (Bill, error) {
			if id != b.ID {
				return Bill{}, ErrNotFound
			}
			return b, nil
		},
		SetStatusFn: func(ctx context.Context, id, status string) (Bill, error) {
			b.Status = status
			return b, nil
		},
	}
}

func TestCreateStartsPending(t *testing.T) {
	t.Parallel()

	var created Bill
	repo := &mockRepository{
		CreateFn: func(ctx context.Context, b Bill) (Bill, error) {
			created = b
			b.ID = "b1"
			return b, nil
		},
	}

	bill, err := New(repo).Create(context.Background(), CreateInput{
		TenantID:    "t1",
		Month:       8,
		Year:        2025,
		RentAmount:  8500,
		ExtraAmount: 300,
		ExtraNote:   "electricity",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Equal(t, 8800.0, bill.Total())
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	_, err := New(&mockRepository{}).Create(context.Background(), CreateInput{
		Month:      13,
		Year:       1970,
		RentAmount: -1,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "tenantId")
	require.Contains(t, validationErr.Fields, "month")
	require.Contains(t, validationErr.Fields, "year")
	require.Contains(t, validationErr.Fields, "rentAmount")
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{StatusPending, StatusReportedPaid, true},
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusOverdue, true},
		{StatusReportedPaid, StatusPaid, true},
		{StatusReportedPaid, StatusPending, true},
		{StatusReportedPaid, StatusOverdue, false},
		{StatusOverdue, StatusReportedPaid, true},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusPending, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusReportedPaid, false},
	}

	for _, tc := range tests {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			t.Parallel()

			svc := New(repoWithBill(Bill{ID: "b1", TenantID: "t1", Status: tc.from}))
			bill, err := svc.SetStatus(context.Background(), "b1", tc.to)
			if tc.allowed {
				require.NoError(t, err)
				require.Equal(t, tc.to, bill.Status)
			} else {
				require.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestReportPaidChecksOwnership(t *testing.T) {
	t.Parallel()

	svc := New(repoWithBill(Bill{ID: "b1", TenantID: "t1", Status: StatusPending}))

	_, err := svc.ReportPaid(context.Background(), "b1", "t2")
	require.ErrorIs(t, err, ErrNotOwner)

	bill, err := svc.ReportPaid(context.Background(), "b1", "t1")
	require.NoError(t, err)
	require.Equal(t, StatusReportedPaid, bill.Status)
}

func TestReportPaidRejectsPaidBill(t *testing.T) {
	t.Parallel()

	svc := New(repoWithBill(Bill{ID: "b1", TenantID: "t1", Status: StatusPaid}))
	_, err := svc.ReportPaid(context.Background(), "b1", "t1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Bill, error) {
			return []Bill{
				{ID: "b1", TenantID: "t1", Month: 8, Year: 2025, Status: StatusPending},
				{ID: "b2", TenantID: "t2", Month: 8, Year: 2025, Status: StatusPaid},
				{ID: "b3", TenantID: "t1", Month: 7, Year: 2025, Status: StatusPending},
			}, nil
		},
	}

	out, err := New(repo).List(context.Background(), ListOptions{Status: StatusPending, Month: 8})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "b1", out[0].ID)
}
