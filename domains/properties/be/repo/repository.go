// Package repo persists properties in the document store.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swami-pg/backend/domains/properties/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// Collection names.
const (
	CollectionProperties = "properties"
	CollectionTenants    = "tenants"
)

// Property document fields.
const (
	FieldName           = "name"
	FieldArea           = "area"
	FieldAddress        = "address"
	FieldDescription    = "description"
	FieldTotalBeds      = "total_beds"
	FieldRent           = "rent"
	FieldDeposit        = "deposit"
	FieldAmenities      = "amenities"
	FieldImageURLs      = "image_urls"
	FieldShowOnHomepage = "show_on_homepage"
	FieldCreatedAt      = "created_at"
	FieldUpdatedAt      = "updated_at"
)

// Tenant fields the occupancy count depends on.
const (
	fieldTenantPropertyID = "property_id"
	fieldTenantStatus     = "status"
	statusActive          = "Active"
)

// DocstoreRepository implements service.Repository over a docstore.Store.
type DocstoreRepository struct {
	store docstore.Store
}

// NewDocstoreRepository constructs a DocstoreRepository.
func NewDocstoreRepository(store docstore.Store) *DocstoreRepository {
	if store == nil {
		panic("document store is required")
	}
	return &DocstoreRepository{store: store}
}

var _ service.Repository = (*DocstoreRepository)(nil)

// List returns every property document.
func (r *DocstoreRepository) List(ctx context.Context) ([]service.Property, error) {
	docs, err := r.store.ScanAll(ctx, CollectionProperties)
	if err != nil {
		return nil, err
	}
	out := make([]service.Property, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapProperty(doc))
	}
	return out, nil
}

// Get returns one property by document id.
func (r *DocstoreRepository) Get(ctx context.Context, id string) (service.Property, error) {
	doc, err := r.store.GetByID(ctx, CollectionProperties, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Property{}, service.ErrNotFound
		}
		return service.Property{}, err
	}
	return mapProperty(doc), nil
}

// CountActiveTenants counts Active tenants assigned to the property.
func (r *DocstoreRepository) CountActiveTenants(ctx context.Context, propertyID string) (int, error) {
	docs, err := r.store.FindByFields(ctx, CollectionTenants, []docstore.Filter{
		{Field: fieldTenantPropertyID, Value: propertyID},
		{Field: fieldTenantStatus, Value: statusActive},
	})
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Create persists a new property under a generated id.
func (r *DocstoreRepository) Create(ctx context.Context, p service.Property) (service.Property, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		FieldName:           p.Name,
		FieldArea:           p.Area,
		FieldAddress:        p.Address,
		FieldDescription:    p.Description,
		FieldTotalBeds:      p.TotalBeds,
		FieldRent:           p.Rent,
		FieldDeposit:        p.Deposit,
		FieldAmenities:      toAnySlice(p.Amenities),
		FieldImageURLs:      toAnySlice(p.ImageURLs),
		FieldShowOnHomepage: p.ShowOnHomepage,
		FieldCreatedAt:      now,
		FieldUpdatedAt:      now,
	}
	if err := r.store.Create(ctx, CollectionProperties, id, data); err != nil {
		return service.Property{}, fmt.Errorf("creating property: %w", err)
	}
	p.ID = id
	return p, nil
}

// Update merges the provided fields into an existing property document.
func (r *DocstoreRepository) Update(ctx context.Context, id string, input service.UpdateInput) (service.Property, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return service.Property{}, err
	}

	data := map[string]any{FieldUpdatedAt: time.Now().UTC()}
	if input.Name != nil {
		data[FieldName] = *input.Name
	}
	if input.Area != nil {
		data[FieldArea] = *input.Area
	}
	if input.Address != nil {
		data[FieldAddress] = *input.Address
	}
	if input.Description != nil {
		data[FieldDescription] = *input.Description
	}
	if input.TotalBeds != nil {
		data[FieldTotalBeds] = *input.TotalBeds
	}
	if input.Rent != nil {
		data[FieldRent] = *input.Rent
	}
	if input.Deposit != nil {
		data[FieldDeposit] = *input.Deposit
	}
	if input.Amenities != nil {
		data[FieldAmenities] = toAnySlice(*input.Amenities)
	}
	if input.ImageURLs != nil {
		data[FieldImageURLs] = toAnySlice(*input.ImageURLs)
	}
	if input.ShowOnHomepage != nil {
		data[FieldShowOnHomepage] = *input.ShowOnHomepage
	}

	if err := r.store.Update(ctx, CollectionProperties, id, data); err != nil {
		return service.Property{}, fmt.Errorf("updating property %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func mapProperty(doc docstore.Document) service.Property {
	return service.Property{
		ID:             doc.ID,
		Name:           doc.String(FieldName),
		Area:           doc.String(FieldArea),
		Address:        doc.String(FieldAddress),
		Description:    doc.String(FieldDescription),
		TotalBeds:      doc.Int(FieldTotalBeds),
		Rent:           doc.Float(FieldRent),
		Deposit:        doc.Float(FieldDeposit),
		Amenities:      stringSlice(doc.Data[FieldAmenities]),
		ImageURLs:      stringSlice(doc.Data[FieldImageURLs]),
		ShowOnHomepage: doc.Bool(FieldShowOnHomepage),
	}
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
