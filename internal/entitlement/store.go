package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/celosoul/celosoul/internal/catalog"
	"github.com/celosoul/celosoul/internal/domain"
)

// Store owns all reads and writes of entitlement records. No other
// component touches persisted entitlement state.
//
// Records are cached per identity for the life of the process; the cache
// is authoritative for the session even when the repository fails, so a
// broken backend degrades to an inaccurate cached quota rather than a
// broken product.
type Store struct {
	repo        Repository
	logger      *slog.Logger
	now         func() time.Time
	resolvePlan func(string) (domain.Plan, bool)

	mu    sync.Mutex
	cache map[string]*domain.EntitlementRecord
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the store's clock, used by tests to cross day
// boundaries.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithPlanResolver overrides the catalog lookup used to compute
// subscription expiry.
func WithPlanResolver(resolve func(string) (domain.Plan, bool)) StoreOption {
	return func(s *Store) { s.resolvePlan = resolve }
}

// NewStore creates a Store over the given repository.
func NewStore(repo Repository, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		repo:        repo,
		logger:      logger,
		now:         time.Now,
		resolvePlan: catalog.Resolve,
		cache:       make(map[string]*domain.EntitlementRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the identity's record, creating a zero-usage default if
// none is stored. If the stored record's last reset is not today, the
// daily counters are zeroed and the reset is persisted eagerly before
// returning, so concurrent consumers within the session never observe
// stale counters. Calling Load twice without an intervening update yields
// identical records.
func (s *Store) Load(ctx context.Context, identity string) *domain.EntitlementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.current(ctx, identity)

	now := s.now()
	if rec.NeedsDailyReset(now) {
		rec.ResetDailyUsage(now)
		s.persist(ctx, identity, rec)
		s.logger.Debug("daily usage reset", "identity", identity, "date", rec.LastReset)
	}

	return rec.Clone()
}

// Update applies mutate to the identity's current record and persists the
// full result as a single write. The updated record is returned.
func (s *Store) Update(ctx context.Context, identity string, mutate func(*domain.EntitlementRecord)) *domain.EntitlementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.current(ctx, identity)

	now := s.now()
	if rec.NeedsDailyReset(now) {
		rec.ResetDailyUsage(now)
	}

	mutate(rec)
	s.persist(ctx, identity, rec)

	return rec.Clone()
}

// UpdateIf applies mutate only when cond holds for the identity's current
// record, with check and mutation in one critical section so two
// concurrent consumers cannot both pass a nearly exhausted quota. The
// returned record reflects the outcome; ok reports whether mutate ran.
func (s *Store) UpdateIf(ctx context.Context, identity string, cond func(*domain.EntitlementRecord) bool, mutate func(*domain.EntitlementRecord)) (rec *domain.EntitlementRecord, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current(ctx, identity)

	now := s.now()
	if cur.NeedsDailyReset(now) {
		cur.ResetDailyUsage(now)
	}

	if !cond(cur) {
		return cur.Clone(), false
	}

	mutate(cur)
	s.persist(ctx, identity, cur)

	return cur.Clone(), true
}

// GrantSubscription attaches a purchased plan to the identity's record.
// The expiry is one calendar day, month, or year past purchaseTime
// depending on the plan's duration class.
func (s *Store) GrantSubscription(ctx context.Context, identity, planID string, purchaseTime time.Time) (*domain.EntitlementRecord, error) {
	const op = "entitlement.grant_subscription"

	plan, ok := s.resolvePlan(planID)
	if !ok {
		return nil, domain.NotFound(op, "plan", planID)
	}

	rec := s.Update(ctx, identity, func(r *domain.EntitlementRecord) {
		r.Subscription = &domain.Subscription{
			PlanID:    plan.ID,
			ExpiresAt: plan.Duration.AddTo(purchaseTime),
		}
	})

	s.logger.Info("subscription granted",
		"identity", identity,
		"plan_id", plan.ID,
		"expires_at", rec.Subscription.ExpiresAt,
	)
	return rec, nil
}

// current returns the session's live record for the identity, reading
// through to the repository on first access. Callers must hold s.mu.
func (s *Store) current(ctx context.Context, identity string) *domain.EntitlementRecord {
	if rec, ok := s.cache[identity]; ok {
		return rec
	}

	rec, err := s.repo.Get(ctx, identity)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		rec = domain.NewEntitlementRecord(s.now())
	default:
		// Availability over durability: a failing backend must not take
		// down gating, so the session starts from a default record.
		s.logger.Error("entitlement read failed, using default record", "identity", identity, "error", err)
		rec = domain.NewEntitlementRecord(s.now())
	}

	s.cache[identity] = rec
	return rec
}

// persist writes the record through to the repository. Failures are
// logged and swallowed; the cached record remains authoritative.
func (s *Store) persist(ctx context.Context, identity string, rec *domain.EntitlementRecord) {
	if err := s.repo.Put(ctx, identity, rec); err != nil {
		s.logger.Error("entitlement write failed, continuing with in-memory record", "identity", identity, "error", err)
	}
}
