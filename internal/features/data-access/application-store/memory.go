// internal/features/data-access/application-store/memory.go
package applicationstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"membership-portal/internal/models"
)

// MemoryStore is a process-local store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]interface{})}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return decode(doc)
}

func (s *MemoryStore) Merge(_ context.Context, id string, doc map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[id]
	if !ok {
		existing = make(map[string]interface{}, len(doc))
	} else if submitted, _ := existing[models.FieldSubmitted].(bool); submitted {
		return ErrAlreadySubmitted
	}
	for k, v := range doc {
		existing[k] = v
	}
	s.docs[id] = existing
	return nil
}

func (s *MemoryStore) Put(_ context.Context, id string, app *models.Application) error {
	doc, err := encode(app)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[id] = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.StoredApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.StoredApplication, 0, len(ids))
	for _, id := range ids {
		app, err := decode(s.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, models.StoredApplication{ID: id, Application: *app})
	}
	return out, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Documents are kept in their JSON shape so Merge behaves like the real stores.
func encode(app *models.Application) (map[string]interface{}, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: encode document: %v", ErrStoreFailed, err)
	}
	return doc, nil
}

func decode(doc map[string]interface{}) (*models.Application, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrStoreFailed, err)
	}
	var app models.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrStoreFailed, err)
	}
	return &app, nil
}
