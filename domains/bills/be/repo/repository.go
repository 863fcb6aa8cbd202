// Package repo persists bills in the document store.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swami-pg/backend/domains/bills/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// CollectionBills is the bills collection name.
const CollectionBills = "bills"

// Bill document fields.
const (
	FieldTenantID    = "tenant_id"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldRentAmount  = "rent_amount"
	FieldExtraAmount = "extra_amount"
	FieldExtraNote   = "extra_note"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
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

// List returns every bill document.
func (r *DocstoreRepository) List(ctx context.Context) ([]service.Bill, error) {
	docs, err := r.store.ScanAll(ctx, CollectionBills)
	if err != nil {
		return nil, err
	}
	return mapBills(docs), nil
}

// ListByTenant returns the bills of one tenant.
func (r *DocstoreRepository) ListByTenant(ctx context.Context, tenantID string) ([]service.Bill, error) {
	docs, err := r.store.FindByField(ctx, CollectionBills, FieldTenantID, tenantID)
	if err != nil {
		return nil, err
	}
	return mapBills(docs), nil
}

// Get returns one bill by document id.
func (r *DocstoreRepository) Get(ctx context.Context, id string) (service.Bill, error) {
	doc, err := r.store.GetByID(ctx, CollectionBills, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Bill{}, service.ErrNotFound
		}
		return service.Bill{}, err
	}
	return mapBill(doc), nil
}

// Create persists a new bill under a generated id.
func (r *DocstoreRepository) Create(ctx context.Context, b service.Bill) (service.Bill, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		FieldTenantID:    b.TenantID,
		FieldMonth:       b.Month,
		FieldYear:        b.Year,
		FieldRentAmount:  b.RentAmount,
		FieldExtraAmount: b.ExtraAmount,
		FieldExtraNote:   b.ExtraNote,
		FieldStatus:      b.Status,
		FieldCreatedAt:   now,
		FieldUpdatedAt:   now,
	}
	if err := r.store.Create(ctx, CollectionBills, id, data); err != nil {
		return service.Bill{}, fmt.Errorf("creating bill: %w", err)
	}
	b.ID = id
	return b, nil
}

// SetStatus updates a bill's status field.
func (r *DocstoreRepository) SetStatus(ctx context.Context, id, status string) (service.Bill, error) {
	data := map[string]any{
		FieldStatus:    status,
		FieldUpdatedAt: time.Now().UTC(),
	}
	if err := r.store.Update(ctx, CollectionBills, id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Bill{}, service.ErrNotFound
		}
		return service.Bill{}, fmt.Errorf("updating bill %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func mapBills(docs []docstore.Document) []service.Bill {
	out := make([]service.Bill, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapBill(doc))
	}
	return out
}

func mapBill(doc docstore.Document) service.Bill {
	return service.Bill{
		ID:          doc.ID,
		TenantID:    doc.String(FieldTenantID),
		Month:       doc.Int(FieldMonth),
		Year:        doc.Int(FieldYear),
		RentAmount:  doc.Float(FieldRentAmount),
		ExtraAmount: doc.Float(FieldExtraAmount),
		ExtraNote:   doc.String(FieldExtraNote),
		Status:      doc.String(FieldStatus),
	}
}
