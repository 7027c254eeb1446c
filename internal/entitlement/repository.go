// Package entitlement implements the persistent per-identity entitlement
// store: consumed quota counters and the active subscription.
//
// Persistence sits behind the Repository interface with two
// implementations:
//   - MemoryRepository: in-process storage for development and tests
//   - PostgresRepository: durable storage for deployments
//
// The store deliberately favors availability over durability: repository
// failures are logged and the in-memory record stays authoritative for
// the session.
package entitlement

import (
	"context"
	"errors"

	"github.com/celosoul/celosoul/internal/domain"
)

// KeyNamespace prefixes serialized storage keys so entitlement state
// cannot collide with other values sharing a backend.
const KeyNamespace = "celosoul_usage_"

// ErrNotFound is returned by Repository.Get when no record exists for
// the identity. The store treats this as "create a default record".
var ErrNotFound = errors.New("entitlement record not found")

// Repository persists entitlement records keyed by identity.
//
// Put must write the whole record atomically; partial field updates are
// never persisted.
type Repository interface {
	// Get returns the record for the identity, or ErrNotFound.
	Get(ctx context.Context, identity string) (*domain.EntitlementRecord, error)

	// Put stores the full record for the identity, replacing any
	// previous value.
	Put(ctx context.Context, identity string, rec *domain.EntitlementRecord) error
}

// StorageKey returns the namespaced key under which an identity's record
// is stored by serialized backends.
func StorageKey(identity string) string {
	return KeyNamespace + identity
}
