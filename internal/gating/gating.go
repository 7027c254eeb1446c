// Package gating implements the pure allow/deny decision logic over an
// entitlement record.
//
// The engine has no side effects and takes the clock as an argument, so
// decisions are deterministic and testable independent of storage. Free
// tier defaults: a small daily swipe allowance and zero super-likes —
// super-likes are a paid-only action.
package gating

import (
	"time"

	"github.com/celosoul/celosoul/internal/catalog"
	"github.com/celosoul/celosoul/internal/domain"
)

// Free-tier defaults.
const (
	FreeDailySwipes = 8
	FreeSuperLikes  = 0
)

// Engine resolves effective quotas and answers allow/deny for gated
// actions. The zero value is not usable; construct with NewEngine.
type Engine struct {
	resolve    func(string) (domain.Plan, bool)
	freeSwipes int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPlanResolver overrides the plan lookup, used by tests to gate
// against synthetic plans.
func WithPlanResolver(resolve func(string) (domain.Plan, bool)) Option {
	return func(e *Engine) { e.resolve = resolve }
}

// WithFreeSwipeLimit overrides the free-tier daily swipe allowance.
func WithFreeSwipeLimit(n int) Option {
	return func(e *Engine) { e.freeSwipes = n }
}

// NewEngine returns an Engine backed by the static plan catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolve:    catalog.Resolve,
		freeSwipes: FreeDailySwipes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EffectiveQuota resolves the quota that applies to the action kind: the
// active subscription's plan quota when one exists, has not expired, and
// resolves in the catalog; the free-tier default otherwise.
func (e *Engine) EffectiveQuota(rec *domain.EntitlementRecord, kind domain.ActionKind, now time.Time) domain.Quota {
	if sub := rec.ActiveSubscription(now); sub != nil {
		if plan, ok := e.resolve(sub.PlanID); ok {
			switch kind {
			case domain.ActionSwipe:
				return plan.Swipes
			case domain.ActionSuperLike:
				return plan.SuperLikes
			}
		}
	}

	switch kind {
	case domain.ActionSwipe:
		return domain.LimitedQuota(e.freeSwipes)
	case domain.ActionSuperLike:
		return domain.LimitedQuota(FreeSuperLikes)
	}
	return domain.LimitedQuota(0)
}

// CanPerform reports whether the record permits one more action of the
// given kind at the given time.
func (e *Engine) CanPerform(rec *domain.EntitlementRecord, kind domain.ActionKind, now time.Time) bool {
	return e.EffectiveQuota(rec, kind, now).Allows(rec.Used(kind))
}

// Remaining returns the quota headroom for the action kind: the count
// left, or unlimited.
func (e *Engine) Remaining(rec *domain.EntitlementRecord, kind domain.ActionKind, now time.Time) (n int, unlimited bool) {
	return e.EffectiveQuota(rec, kind, now).Remaining(rec.Used(kind))
}
