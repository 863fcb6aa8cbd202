// Package repo persists visit requests in the document store.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swami-pg/backend/domains/visits/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// CollectionVisits is the visit requests collection name.
const CollectionVisits = "visit_requests"

// Visit request document fields.
const (
	FieldName       = "name"
	FieldPhone      = "phone"
	FieldPropertyID = "property_id"
	FieldSlot       = "slot"
	FieldNote       = "note"
	FieldStatus     = "status"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
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

// List returns every visit request document.
func (r *DocstoreRepository) List(ctx context.Context) ([]service.VisitRequest, error) {
	docs, err := r.store.ScanAll(ctx, CollectionVisits)
	if err != nil {
		return nil, err
	}
	out := make([]service.VisitRequest, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapVisit(doc))
	}
	return out, nil
}

// Get returns one visit request by document id.
func (r *DocstoreRepository) Get(ctx context.Context, id string) (service.VisitRequest, error) {
	doc, err := r.store.GetByID(ctx, CollectionVisits, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.VisitRequest{}, service.ErrNotFound
		}
		return service.VisitRequest{}, err
	}
	return mapVisit(doc), nil
}

// Create persists a new visit request under a generated id.
func (r *DocstoreRepository) Create(ctx context.Context, v service.VisitRequest) (service.VisitRequest, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		FieldName:       v.Name,
		FieldPhone:      v.Phone,
		FieldPropertyID: v.PropertyID,
		FieldSlot:       v.Slot,
		FieldNote:       v.Note,
		FieldStatus:     v.Status,
		FieldCreatedAt:  now,
		FieldUpdatedAt:  now,
	}
	if err := r.store.Create(ctx, CollectionVisits, id, data); err != nil {
		return service.VisitRequest{}, fmt.Errorf("creating visit request: %w", err)
	}
	v.ID = id
	return v, nil
}

// SetStatus updates a visit request's status field.
func (r *DocstoreRepository) SetStatus(ctx context.Context, id, status string) (service.VisitRequest, error) {
	data := map[string]any{
		FieldStatus:    status,
		FieldUpdatedAt: time.Now().UTC(),
	}
	if err := r.store.Update(ctx, CollectionVisits, id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.VisitRequest{}, service.ErrNotFound
		}
		return service.VisitRequest{}, fmt.Errorf("updating visit request %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func mapVisit(doc docstore.Document) service.VisitRequest {
	return service.VisitRequest{
		ID:         doc.ID,
		Name:       doc.String(FieldName),
		Phone:      doc.String(FieldPhone),
		PropertyID: doc.String(FieldPropertyID),
		Slot:       doc.String(FieldSlot),
		Note:       doc.String(FieldNote),
		Status:     doc.String(FieldStatus),
	}
}
