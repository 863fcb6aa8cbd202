package docstore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on top of a Cloud Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore constructs a FirestoreStore.
func NewFirestore(client *firestore.Client) *FirestoreStore {
	if client == nil {
		panic("firestore client is required")
	}
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, Unavailable("get", collection, err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) FindByField(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return s.FindByFields(ctx, collection, []Filter{{Field: field, Value: value}})
}

func (s *FirestoreStore) FindByFields(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	return s.drain(q.Documents(ctx), collection)
}

func (s *FirestoreStore) ScanAll(ctx context.Context, collection string) ([]Document, error) {
	return s.drain(s.client.Collection(collection).Documents(ctx), collection)
}

func (s *FirestoreStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	// Doc.Create is conditional on absence, so concurrent creators cannot
	// both win the same id.
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrAlreadyExists
		}
		return Unavailable("create", collection, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Set(ctx, data, firestore.MergeAll); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return Unavailable("update", collection, err)
	}
	return nil
}

func (s *FirestoreStore) drain(iter *firestore.DocumentIterator, collection string) ([]Document, error) {
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, Unavailable("query", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
}
