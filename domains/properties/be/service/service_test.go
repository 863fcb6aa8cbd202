package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	ListFn               func(ctx context.Context) ([]Property, error)
	GetFn                func(ctx context.Context, id string) (Property, error)
	CountActiveTenantsFn func(ctx context.Context, propertyID string) (int, error)
	CreateFn             func(ctx context.Context, p Property) (Property, error)
	UpdateFn             func(ctx context.Context, id string, input UpdateInput) (Property, error)
}

func (m *mockRepository) List(ctx context.Context) ([]Property, error) {
	if m.ListFn == nil {
		panic("List not configured")
	}
	return m.ListFn(ctx)
}

func (m *mockRepository) Get(ctx context.Context, id string) (Property, error) {
	if m.GetFn == nil {
		panic("Get not configured")
	}
	return m.GetFn(ctx, id)
}

func (m *mockRepository) CountActiveTenants(ctx context.Context, propertyID string) (int, error) {
	if m.CountActiveTenantsFn == nil {
		panic("CountActiveTenants not configured")
	}
	return m.CountActiveTenantsFn(ctx, propertyID)
}

func (m *mockRepository) Create(ctx context.Context, p Property) (Property, error) {
	if m.CreateFn == nil {
		panic("Create not configured")
	}
	return m.CreateFn(ctx, p)
}

func (m *mockRepository) Update(ctx context.Context, id string, input UpdateInput) (Property, error) {
	if m.UpdateFn == nil {
		panic("Update not configured")
	}
	return m.UpdateFn(ctx, id, input)
}

func TestListComputesAvailableBeds(t *testing.T) {
	t.Parallel()

	occupancy := map[string]int{"p1": 3, "p2": 0}
	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Property, error) {
			return []Property{
				{ID: "p1", Name: "Sunrise PG", Area: "Kothrud", TotalBeds: 10, ShowOnHomepage: true},
				{ID: "p2", Name: "Moonlight PG", Area: "Baner", TotalBeds: 6, ShowOnHomepage: true},
			}, nil
		},
		CountActiveTenantsFn: func(ctx context.Context, propertyID string) (int, error) {
			return occupancy[propertyID], nil
		},
	}

	props, err := New(repo).List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, props, 2)
	require.Equal(t, 3, props[0].OccupiedBeds)
	require.Equal(t, 7, props[0].AvailableBeds)
	require.Equal(t, 0, props[1].OccupiedBeds)
	require.Equal(t, 6, props[1].AvailableBeds)
}

func TestListClampsOccupancyToTotalBeds(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Property, error) {
			return []Property{{ID: "p1", TotalBeds: 4}}, nil
		},
		CountActiveTenantsFn: func(ctx context.Context, propertyID string) (int, error) {
			// More Active tenants than beds, seen after manual data edits.
			return 6, nil
		},
	}

	props, err := New(repo).List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Equal(t, 4, props[0].OccupiedBeds)
	require.Equal(t, 0, props[0].AvailableBeds)
}

func TestListFiltersByAreaAndHomepage(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Property, error) {
			return []Property{
				{ID: "p1", Area: "Kothrud", TotalBeds: 5, ShowOnHomepage: true},
				{ID: "p2", Area: "Kothrud", TotalBeds: 5, ShowOnHomepage: false},
				{ID: "p3", Area: "Baner", TotalBeds: 5, ShowOnHomepage: true},
			}, nil
		},
		CountActiveTenantsFn: func(ctx context.Context, propertyID string) (int, error) {
			return 0, nil
		},
	}

	svc := New(repo)

	props, err := svc.List(context.Background(), ListOptions{Area: "Kothrud", HomepageOnly: true})
	require.NoError(t, err)
	require.Len(t, props, 1)
	require.Equal(t, "p1", props[0].ID)

	props, err = svc.List(context.Background(), ListOptions{Area: "Kothrud"})
	require.NoError(t, err)
	require.Len(t, props, 2)
}

func TestAreasDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Property, error) {
			return []Property{
				{ID: "p1", Area: "Kothrud"},
				{ID: "p2", Area: "Baner"},
				{ID: "p3", Area: "Kothrud"},
				{ID: "p4", Area: "  "},
			}, nil
		},
	}

	areas, err := New(repo).Areas(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Baner", "Kothrud"}, areas)
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	_, err := New(&mockRepository{}).Create(context.Background(), CreateInput{
		Name:      "  ",
		Area:      "",
		TotalBeds: 0,
		Rent:      -1,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "name")
	require.Contains(t, validationErr.Fields, "area")
	require.Contains(t, validationErr.Fields, "totalBeds")
	require.Contains(t, validationErr.Fields, "rent")
}

func TestCreateTrimsAndPersists(t *testing.T) {
	t.Parallel()

	var created Property
	repo := &mockRepository{
		CreateFn: func(ctx context.Context, p Property) (Property, error) {
			created = p
			p.ID = "p1"
			return p, nil
		},
	}

	p, err := New(repo).Create(context.Background(), CreateInput{
		Name:      "  Sunrise PG  ",
		Area:      " Kothrud ",
		TotalBeds: 12,
		Rent:      8500,
	})
	require.NoError(t, err)
	require.Equal(t, "p1", p.ID)
	require.Equal(t, "Sunrise PG", created.Name)
	require.Equal(t, "Kothrud", created.Area)
}

func TestUpdateRejectsNonPositiveTotalBeds(t *testing.T) {
	t.Parallel()

	beds := 0
	_, err := New(&mockRepository{}).Update(context.Background(), "p1", UpdateInput{TotalBeds: &beds})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestListPropagatesRepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("firestore unavailable")
	repo := &mockRepository{
		ListFn: func(ctx context.Context) ([]Property, error) { return nil, repoErr },
	}

	_, err := New(repo).List(context.Background(), ListOptions{})
	require.ErrorIs(t, err, repoErr)
}
