package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swami-pg/backend/domains/properties/be/repo"
	"github.com/swami-pg/backend/domains/properties/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

func seedProperty(store *docstore.Memory, id, name, area string, totalBeds int, homepage bool) {
	store.Seed(repo.CollectionProperties, id, map[string]any{
		repo.FieldName:           name,
		repo.FieldArea:           area,
		repo.FieldTotalBeds:      totalBeds,
		repo.FieldShowOnHomepage: homepage,
	})
}

func seedTenant(store *docstore.Memory, id, propertyID, status string) {
	store.Seed(repo.CollectionTenants, id, map[string]any{
		"name":        "Tenant " + id,
		"property_id": propertyID,
		"status":      status,
	})
}

func TestListComputesOccupancyFromTenantDocuments(t *testing.T) {
	t.Parallel()

	store := docstore.NewMemory()
	seedProperty(store, "p1", "Sunrise PG", "Kothrud", 10, true)
	seedProperty(store, "p2", "Moonlight PG", "Baner", 6, false)
	seedTenant(store, "t1", "p1", "Active")
	seedTenant(store, "t2", "p1", "Active")
	seedTenant(store, "t3", "p1", "Vacated")
	seedTenant(store, "t4", "p2", "pending")

	svc := service.New(repo.NewDocstoreRepository(store))

	props, err := svc.List(context.Background(), service.ListOptions{})
	require.NoError(t, err)
	require.Len(t, props, 2)

	byID := map[string]service.Property{}
	for _, p := range props {
		byID[p.ID] = p
	}
	require.Equal(t, 2, byID["p1"].OccupiedBeds)
	require.Equal(t, 8, byID["p1"].AvailableBeds)
	require.Equal(t, 0, byID["p2"].OccupiedBeds)
	require.Equal(t, 6, byID["p2"].AvailableBeds)
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	t.Parallel()

	store := docstore.NewMemory()
	svc := service.New(repo.NewDocstoreRepository(store))

	created, err := svc.Create(context.Background(), service.CreateInput{
		Name:      "Sunrise PG",
		Area:      "Kothrud",
		Address:   "12 Paud Road",
		TotalBeds: 12,
		Rent:      8500,
		Amenities: []string{"WiFi", "Laundry"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Sunrise PG", got.Name)
	require.Equal(t, []string{"WiFi", "Laundry"}, got.Amenities)
	require.Equal(t, 12, got.AvailableBeds)
}

func TestUpdateMergesFields(t *testing.T) {
	t.Parallel()

	store := docstore.NewMemory()
	seedProperty(store, "p1", "Sunrise PG", "Kothrud", 10, false)

	svc := service.New(repo.NewDocstoreRepository(store))

	show := true
	beds := 14
	updated, err := svc.Update(context.Background(), "p1", service.UpdateInput{
		TotalBeds:      &beds,
		ShowOnHomepage: &show,
	})
	require.NoError(t, err)
	require.Equal(t, 14, updated.TotalBeds)
	require.True(t, updated.ShowOnHomepage)
	require.Equal(t, "Sunrise PG", updated.Name)
}

func TestGetUnknownPropertyReturnsNotFound(t *testing.T) {
	t.Parallel()

	svc := service.New(repo.NewDocstoreRepository(docstore.NewMemory()))

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}
