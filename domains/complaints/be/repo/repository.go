// Package repo persists complaints in the document store.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swami-pg/backend/domains/complaints/be/service"
	"github.com/swami-pg/backend/platform/go/docstore"
)

// CollectionComplaints is the complaints collection name.
const CollectionComplaints = "complaints"

// Complaint document fields.
const (
	FieldTenantID    = "tenant_id"
	FieldPropertyID  = "property_id"
	FieldCategory    = "category"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldAdminNote   = "admin_note"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
	FieldResolvedAt  = "resolved_at"
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

// List returns every complaint document.
func (r *DocstoreRepository) List(ctx context.Context) ([]service.Complaint, error) {
	docs, err := r.store.ScanAll(ctx, CollectionComplaints)
	if err != nil {
		return nil, err
	}
	return mapComplaints(docs), nil
}

// ListByTenant returns one tenant's complaints.
func (r *DocstoreRepository) ListByTenant(ctx context.Context, tenantID string) ([]service.Complaint, error) {
	docs, err := r.store.FindByField(ctx, CollectionComplaints, FieldTenantID, tenantID)
	if err != nil {
		return nil, err
	}
	return mapComplaints(docs), nil
}

// Get returns one complaint by document id.
func (r *DocstoreRepository) Get(ctx context.Context, id string) (service.Complaint, error) {
	doc, err := r.store.GetByID(ctx, CollectionComplaints, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Complaint{}, service.ErrNotFound
		}
		return service.Complaint{}, err
	}
	return mapComplaint(doc), nil
}

// Create persists a new complaint under a generated id.
func (r *DocstoreRepository) Create(ctx context.Context, c service.Complaint) (service.Complaint, error) {
	now := time.Now().UTC()
	id := uuid.NewString()
	data := map[string]any{
		FieldTenantID:    c.TenantID,
		FieldPropertyID:  c.PropertyID,
		FieldCategory:    c.Category,
		FieldTitle:       c.Title,
		FieldDescription: c.Description,
		FieldStatus:      c.Status,
		FieldAdminNote:   "",
		FieldCreatedAt:   now,
		FieldUpdatedAt:   now,
	}
	if err := r.store.Create(ctx, CollectionComplaints, id, data); err != nil {
		return service.Complaint{}, fmt.Errorf("creating complaint: %w", err)
	}
	c.ID = id
	return c, nil
}

// SetStatus updates a complaint's status. Resolving stamps resolved_at;
// reopening clears it.
func (r *DocstoreRepository) SetStatus(ctx context.Context, id, status, adminNote string) (service.Complaint, error) {
	now := time.Now().UTC()
	data := map[string]any{
		FieldStatus:    status,
		FieldUpdatedAt: now,
	}
	if adminNote != "" {
		data[FieldAdminNote] = adminNote
	}
	if status == service.StatusResolved {
		data[FieldResolvedAt] = now
	} else {
		data[FieldResolvedAt] = nil
	}
	if err := r.store.Update(ctx, CollectionComplaints, id, data); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return service.Complaint{}, service.ErrNotFound
		}
		return service.Complaint{}, fmt.Errorf("updating complaint %s: %w", id, err)
	}
	return r.Get(ctx, id)
}

func mapComplaints(docs []docstore.Document) []service.Complaint {
	out := make([]service.Complaint, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapComplaint(doc))
	}
	return out
}

func mapComplaint(doc docstore.Document) service.Complaint {
	return service.Complaint{
		ID:          doc.ID,
		TenantID:    doc.String(FieldTenantID),
		PropertyID:  doc.String(FieldPropertyID),
		Category:    doc.String(FieldCategory),
		Title:       doc.String(FieldTitle),
		Description: doc.String(FieldDescription),
		Status:      doc.String(FieldStatus),
		AdminNote:   doc.String(FieldAdminNote),
	}
}
