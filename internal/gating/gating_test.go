package gating

import (
	"testing"
	"time"

	"github.com/celosoul/celosoul/internal/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeSub(planID string) *domain.Subscription {
	return &domain.Subscription{PlanID: planID, ExpiresAt: now.Add(12 * time.Hour)}
}

func TestCanPerformSwipeFreeTier(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name       string
		swipesUsed int
		want       bool
	}{
		{name: "fresh record", swipesUsed: 0, want: true},
		{name: "under free limit", swipesUsed: 7, want: true},
		{name: "at free limit", swipesUsed: 8, want: false},
		{name: "over free limit", swipesUsed: 9, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &domain.EntitlementRecord{SwipesUsed: tt.swipesUsed}
			assert.Equal(t, tt.want, e.CanPerform(rec, domain.ActionSwipe, now))
		})
	}
}

func TestSuperLikesAreNeverFree(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{}
	assert.False(t, e.CanPerform(rec, domain.ActionSuperLike, now))

	// Even with zero usage and an expired subscription
	rec = &domain.EntitlementRecord{
		Subscription: &domain.Subscription{PlanID: "daily-gold", ExpiresAt: now.Add(-time.Minute)},
	}
	assert.False(t, e.CanPerform(rec, domain.ActionSuperLike, now))
}

func TestSubscriptionQuotaApplies(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{
		SwipesUsed:   50, // past the free limit
		Subscription: activeSub("daily-premium"),
	}
	assert.True(t, e.CanPerform(rec, domain.ActionSwipe, now), "premium allows 100 swipes")

	rec.SwipesUsed = 100
	assert.False(t, e.CanPerform(rec, domain.ActionSwipe, now))

	rec.SuperLikesUsed = 9
	assert.True(t, e.CanPerform(rec, domain.ActionSuperLike, now))
	rec.SuperLikesUsed = 10
	assert.False(t, e.CanPerform(rec, domain.ActionSuperLike, now))
}

func TestUnlimitedPlanAlwaysAllowsSwipes(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{
		SwipesUsed:   123456,
		Subscription: activeSub("daily-gold"),
	}
	assert.True(t, e.CanPerform(rec, domain.ActionSwipe, now))

	_, unlimited := e.Remaining(rec, domain.ActionSwipe, now)
	assert.True(t, unlimited)
}

func TestExpiredSubscriptionFallsBackToFreeTier(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{
		SwipesUsed: 8,
		Subscription: &domain.Subscription{
			PlanID:    "daily-gold",
			ExpiresAt: now.Add(-time.Hour),
		},
	}
	assert.False(t, e.CanPerform(rec, domain.ActionSwipe, now))
}

func TestUnknownPlanIDFallsBackToFreeTier(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{
		SwipesUsed:   5,
		Subscription: activeSub("plan-removed-from-catalog"),
	}
	assert.True(t, e.CanPerform(rec, domain.ActionSwipe, now))

	rec.SwipesUsed = 8
	assert.False(t, e.CanPerform(rec, domain.ActionSwipe, now))
}

func TestRemaining(t *testing.T) {
	e := NewEngine()

	rec := &domain.EntitlementRecord{SwipesUsed: 3}
	n, unlimited := e.Remaining(rec, domain.ActionSwipe, now)
	assert.False(t, unlimited)
	assert.Equal(t, 5, n)

	// Remaining never goes negative
	rec.SwipesUsed = 20
	n, _ = e.Remaining(rec, domain.ActionSwipe, now)
	assert.Equal(t, 0, n)

	rec = &domain.EntitlementRecord{SuperLikesUsed: 2, Subscription: activeSub("daily-basic")}
	n, _ = e.Remaining(rec, domain.ActionSuperLike, now)
	assert.Equal(t, 3, n)
}

func TestCustomResolverAndFreeLimit(t *testing.T) {
	plan := domain.Plan{
		ID:         "test-plan",
		Swipes:     domain.LimitedQuota(2),
		SuperLikes: domain.UnlimitedQuota(),
	}
	e := NewEngine(
		WithPlanResolver(func(id string) (domain.Plan, bool) {
			return plan, id == plan.ID
		}),
		WithFreeSwipeLimit(1),
	)

	rec := &domain.EntitlementRecord{SwipesUsed: 1}
	assert.False(t, e.CanPerform(rec, domain.ActionSwipe, now))

	rec.Subscription = activeSub("test-plan")
	assert.True(t, e.CanPerform(rec, domain.ActionSwipe, now))
	assert.True(t, e.CanPerform(rec, domain.ActionSuperLike, now))
}
