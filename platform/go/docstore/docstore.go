// Package docstore is the narrow client surface this application needs from
// its hosted document database. Domains depend on the Store interface only;
// the Firestore implementation lives alongside a memory implementation used
// by tests and early development.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errors returned by Store implementations.
var (
	// ErrNotFound signals an absent document. It is normal control flow for
	// the lookup cascades and must never be conflated with ErrUnavailable.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists signals a conditional create losing to an existing id.
	ErrAlreadyExists = errors.New("document already exists")
	// ErrUnavailable wraps transport or permission failures. Callers fail
	// closed when they see it instead of guessing at a result.
	ErrUnavailable = errors.New("document store unavailable")
)

// Filter is a single equality predicate on a document field.
type Filter struct {
	Field string
	Value any
}

// Document is a raw record returned by the store: the document id plus its
// field map. Typed accessors tolerate missing or mistyped fields, matching
// how loosely the underlying collections are populated.
type Document struct {
	ID   string
	Data map[string]any
}

// Store abstracts the document database.
type Store interface {
	// GetByID returns the document at collection/id or ErrNotFound.
	GetByID(ctx context.Context, collection, id string) (Document, error)
	// FindByField returns every document whose field equals value.
	FindByField(ctx context.Context, collection, field string, value any) ([]Document, error)
	// FindByFields returns every document matching all filters.
	FindByFields(ctx context.Context, collection string, filters []Filter) ([]Document, error)
	// ScanAll returns every document in the collection. Expensive; reserved
	// for last-resort fallbacks and operator tooling.
	ScanAll(ctx context.Context, collection string) ([]Document, error)
	// Create writes a new document and fails if the id is already taken.
	Create(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges the given fields into an existing document.
	Update(ctx context.Context, collection, id string, data map[string]any) error
}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	if v, ok := d.Data[key].(string); ok {
		return v
	}
	return ""
}

// OptString returns the field as a *string, or nil when absent or blank.
func (d Document) OptString(key string) *string {
	if v, ok := d.Data[key].(string); ok && strings.TrimSpace(v) != "" {
		return &v
	}
	return nil
}

// Int returns the field as an int, accepting the numeric types the store
// hands back for JSON-ish payloads.
func (d Document) Int(key string) int {
	switch v := d.Data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the field as a float64.
func (d Document) Float(key string) float64 {
	switch v := d.Data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the field as a bool; absent fields are false.
func (d Document) Bool(key string) bool {
	if v, ok := d.Data[key].(bool); ok {
		return v
	}
	return false
}

// Time returns the field as a time.Time, or the zero time.
func (d Document) Time(key string) time.Time {
	if v, ok := d.Data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Unavailable wraps err as an ErrUnavailable, keeping the failing operation
// in the message for logs.
func Unavailable(op, collection string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, collection, err)
}
