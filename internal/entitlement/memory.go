package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/celosoul/celosoul/internal/domain"
)

// MemoryRepository stores serialized records in process memory. It mirrors
// the key/value shape of the production backend — records are kept as JSON
// so every Get/Put exercises the same round-trip the durable stores do.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string][]byte),
	}
}

// Get returns the stored record for the identity, or ErrNotFound.
func (r *MemoryRepository) Get(_ context.Context, identity string) (*domain.EntitlementRecord, error) {
	r.mu.RLock()
	data, ok := r.records[StorageKey(identity)]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	var rec domain.EntitlementRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode entitlement record: %w", err)
	}
	return &rec, nil
}

// Put replaces the stored record for the identity.
func (r *MemoryRepository) Put(_ context.Context, identity string, rec *domain.EntitlementRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode entitlement record: %w", err)
	}

	r.mu.Lock()
	r.records[StorageKey(identity)] = data
	r.mu.Unlock()
	return nil
}
