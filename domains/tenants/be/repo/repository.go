// Package repo persists back-office tenant records in the document store.
// It shares the tenants collection with the identity domain and uses the
// same snake_case field names.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	identityrepo "github.com/swami-pg/backend/domains/identity/be/repo"
	"github.com/swami-pg/backend/domains/tenants/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// Additional tenant fields the back-office manages.
const (
	FieldRoomNumber = "room_number"
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

// List returns every tenant document.
func (r *DocstoreRepository) List(ctx context.Context) ([]service.Tenant, error) {
	docs, err := r.store.ScanAll(ctx, identityrepo.CollectionTenants)
	if err != nil {
		return nil, err
	}
	out := make([]service.Tenant, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapTenant(doc))
	}
	return out, nil
}

// Get returns one tenant by document id.
func (r *DocstoreRepository) Get(ctx context.Context, id string) (service.Tenant, error) {
	doc, err := r.store.GetByID(ctx, identityrepo.CollectionTenants, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Tenant{}, service.ErrNotFound
		}
		return service.Tenant{}, err
	}
	return mapTenant(doc), nil
}

// ByCode returns tenants with the exact tenant_code.
func (r *DocstoreRepository) ByCode(ctx context.Context, code string) ([]service.Tenant, error) {
	docs, err := r.store.FindByField(ctx, identityrepo.CollectionTenants, identityrepo.FieldTenantCode, code)
	if err != nil {
		return nil, err
	}
	out := make([]service.Tenant, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapTenant(doc))
	}
	return out, nil
}

// Create persists a pre-provisioned tenant under a generated id. The auth_uid
// stays empty until the tenant signs up and the linker claims the record.
func (r *DocstoreRepository) Create(ctx context.Context, t service.Tenant) (service.Tenant, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		identityrepo.FieldName:       t.Name,
		identityrepo.FieldEmail:      t.Email,
		identityrepo.FieldPhone:      t.Phone,
		identityrepo.FieldAuthUID:    "",
		identityrepo.FieldTenantCode: t.TenantCode,
		identityrepo.FieldStatus:     t.Status,
		identityrepo.FieldRent:       t.Rent,
		identityrepo.FieldDeposit:    t.Deposit,
		FieldRoomNumber:              t.RoomNumber,
		identityrepo.FieldCreatedAt:  now,
		identityrepo.FieldUpdatedAt:  now,
	}
	if t.PropertyID != "" {
		data[identityrepo.FieldPropertyID] = t.PropertyID
	} else {
		data[identityrepo.FieldPropertyID] = nil
	}
	if err := r.store.Create(ctx, identityrepo.CollectionTenants, id, data); err != nil {
		return service.Tenant{}, fmt.Errorf("creating tenant: %w", err)
	}
	t.ID = id
	return t, nil
}

// Update merges the provided fields into an existing tenant document.
func (r *DocstoreRepository) Update(ctx context.Context, id string, input service.UpdateInput) (service.Tenant, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return service.Tenant{}, err
	}

	data := map[string]any{identityrepo.FieldUpdatedAt: time.Now().UTC()}
	if input.Name != nil {
		data[identityrepo.FieldName] = *input.Name
	}
	if input.Email != nil {
		data[identityrepo.FieldEmail] = *input.Email
	}
	if input.Phone != nil {
		data[identityrepo.FieldPhone] = *input.Phone
	}
	if input.TenantCode != nil {
		data[identityrepo.FieldTenantCode] = *input.TenantCode
	}
	if input.PropertyID != nil {
		if *input.PropertyID == "" {
			data[identityrepo.FieldPropertyID] = nil
		} else {
			data[identityrepo.FieldPropertyID] = *input.PropertyID
		}
	}
	if input.RoomNumber != nil {
		data[FieldRoomNumber] = *input.RoomNumber
	}
	if input.Status != nil {
		data[identityrepo.FieldStatus] = *input.Status
	}
	if input.Rent != nil {
		data[identityrepo.FieldRent] = *input.Rent
	}
	if input.Deposit != nil {
		data[identityrepo.FieldDeposit] = *input.Deposit
	}

	if err := r.store.Update(ctx, identityrepo.CollectionTenants, id, data); err != nil {
		return service.Tenant{}, fmt.Errorf("updating tenant %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func mapTenant(doc docstore.Document) service.Tenant {
	return service.Tenant{
		ID:         doc.ID,
		Name:       doc.String(identityrepo.FieldName),
		Email:      doc.String(identityrepo.FieldEmail),
		Phone:      doc.String(identityrepo.FieldPhone),
		AuthUID:    doc.String(identityrepo.FieldAuthUID),
		TenantCode: doc.String(identityrepo.FieldTenantCode),
		PropertyID: doc.String(identityrepo.FieldPropertyID),
		RoomNumber: doc.String(FieldRoomNumber),
		Status:     doc.String(identityrepo.FieldStatus),
		Rent:       doc.Float(identityrepo.FieldRent),
		Deposit:    doc.Float(identityrepo.FieldDeposit),
	}
}
