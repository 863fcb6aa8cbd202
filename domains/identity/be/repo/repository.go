// Package repo implements the identity domain's Repository over the
// document store.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/swami-pg/backend/domains/identity/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// Collections touched by the identity domain.
const (
	CollectionAdmins  = "admins"
	CollectionTenants = "tenants"
)

// Tenant document fields, shared with the tenants back-office repo.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldAuthUID    = "auth_uid"
	FieldStatus     = "status"
	FieldPropertyID = "property_id"
	FieldTenantCode = "tenant_code"
	FieldRent       = "rent"
	FieldDeposit    = "deposit"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
)

// DocstoreRepository implements service.Repository on a docstore.Store.
type DocstoreRepository struct {
	store docstore.Store
}

// New constructs a DocstoreRepository.
func New(store docstore.Store) *DocstoreRepository {
	if store == nil {
		panic("document store is required")
	}
	return &DocstoreRepository{store: store}
}

func (r *DocstoreRepository) AdminExists(ctx context.Context, uid string) (bool, error) {
	// Presence of the document is the whole signal; its fields are ignored.
	_, err := r.store.GetByID(ctx, CollectionAdmins, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DocstoreRepository) TenantByID(ctx context.Context, id string) (service.TenantRecord, bool, error) {
	doc, err := r.store.GetByID(ctx, CollectionTenants, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return service.TenantRecord{}, false, nil
	}
	if err != nil {
		return service.TenantRecord{}, false, err
	}
	return MapTenant(doc), true, nil
}

func (r *DocstoreRepository) TenantsByAuthUID(ctx context.Context, uid string) ([]service.TenantRecord, error) {
	docs, err := r.store.FindByField(ctx, CollectionTenants, FieldAuthUID, uid)
	if err != nil {
		return nil, err
	}
	return mapTenants(docs), nil
}

func (r *DocstoreRepository) TenantsByEmail(ctx context.Context, email string) ([]service.TenantRecord, error) {
	docs, err := r.store.FindByField(ctx, CollectionTenants, FieldEmail, email)
	if err != nil {
		return nil, err
	}
	return mapTenants(docs), nil
}

func (r *DocstoreRepository) AllTenants(ctx context.Context) ([]service.TenantRecord, error) {
	docs, err := r.store.ScanAll(ctx, CollectionTenants)
	if err != nil {
		return nil, err
	}
	return mapTenants(docs), nil
}

func (r *DocstoreRepository) TenantByPhone(ctx context.Context, phone string) (service.TenantRecord, bool, error) {
	docs, err := r.store.FindByField(ctx, CollectionTenants, FieldPhone, phone)
	if err != nil {
		return service.TenantRecord{}, false, err
	}
	if len(docs) == 0 {
		return service.TenantRecord{}, false, nil
	}
	return MapTenant(docs[0]), true, nil
}

func (r *DocstoreRepository) LinkTenant(ctx context.Context, id, authUID string, phone *string) error {
	data := map[string]any{
		FieldAuthUID:   authUID,
		FieldUpdatedAt: time.Now().UTC(),
	}
	if phone != nil {
		data[FieldPhone] = *phone
	}
	return r.store.Update(ctx, CollectionTenants, id, data)
}

func (r *DocstoreRepository) CreateTenant(ctx context.Context, rec service.TenantRecord) error {
	now := time.Now().UTC()
	return r.store.Create(ctx, CollectionTenants, rec.ID, map[string]any{
		FieldName:       rec.Name,
		FieldEmail:      rec.Email,
		FieldPhone:      rec.Phone,
		FieldStatus:     rec.Status,
		FieldPropertyID: nil,
		FieldRent:       0,
		FieldDeposit:    0,
		FieldCreatedAt:  now,
		FieldUpdatedAt:  now,
	})
}

// MapTenant converts a raw tenant document into the domain record.
func MapTenant(doc docstore.Document) service.TenantRecord {
	return service.TenantRecord{
		ID:         doc.ID,
		Name:       doc.String(FieldName),
		Email:      doc.String(FieldEmail),
		Phone:      doc.String(FieldPhone),
		AuthUID:    doc.String(FieldAuthUID),
		Status:     doc.String(FieldStatus),
		PropertyID: doc.String(FieldPropertyID),
		TenantCode: doc.String(FieldTenantCode),
		Rent:       doc.Float(FieldRent),
		Deposit:    doc.Float(FieldDeposit),
	}
}

func mapTenants(docs []docstore.Document) []service.TenantRecord {
	recs := make([]service.TenantRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, MapTenant(doc))
	}
	return recs
}
