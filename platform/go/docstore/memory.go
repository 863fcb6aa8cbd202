package docstore

import (
	"context"
	"maps"
	"sort"
	"sync"
)

// Memory is an in-memory Store suitable for tests and early development.
// It journals every call so tests can assert which lookups ran, and can be
// told to fail a given operation to exercise outage paths.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	calls       []string
	failures    map[string]error
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]any),
		failures:    make(map[string]error),
	}
}

// Seed inserts or replaces a document without journaling.
func (m *Memory) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]map[string]any)
	}
	m.collections[collection][id] = maps.Clone(data)
}

// FailWith makes every subsequent call of op (e.g. "ScanAll") return err.
func (m *Memory) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// Calls returns the journal of operations performed so far, as "Op collection" entries.
func (m *Memory) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Memory) GetByID(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetByID", collection); err != nil {
		return Document{}, err
	}
	data, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: maps.Clone(data)}, nil
}

func (m *Memory) FindByField(ctx context.Context, collection, field string, value any) ([]Document, error) {
	return m.find(collection, "FindByField", []Filter{{Field: field, Value: value}})
}

func (m *Memory) FindByFields(ctx context.Context, collection string, filters []Filter) ([]Document, error) {
	return m.find(collection, "FindByFields", filters)
}

func (m *Memory) ScanAll(ctx context.Context, collection string) ([]Document, error) {
	return m.find(collection, "ScanAll", nil)
}

func (m *Memory) Create(ctx context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Create", collection); err != nil {
		return err
	}
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]map[string]any)
	}
	if _, exists := m.collections[collection][id]; exists {
		return ErrAlreadyExists
	}
	m.collections[collection][id] = maps.Clone(data)
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Update", collection); err != nil {
		return err
	}
	existing, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range data {
		existing[k] = v
	}
	return nil
}

func (m *Memory) find(collection, op string, filters []Filter) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(op, collection); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	// Deterministic order keeps first-match semantics stable across runs.
	sort.Strings(ids)

	var docs []Document
	for _, id := range ids {
		data := m.collections[collection][id]
		if !matches(data, filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: maps.Clone(data)})
	}
	return docs, nil
}

// record journals the call and returns the injected failure, if any.
// Callers must hold the lock.
func (m *Memory) record(op, collection string) error {
	m.calls = append(m.calls, op+" "+collection)
	if err, ok := m.failures[op]; ok {
		return err
	}
	return nil
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if data[f.Field] != f.Value {
			return false
		}
	}
	return true
}
