package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsDailyReset(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lastReset string
		want      bool
	}{
		{name: "same day", lastReset: "2025-06-15", want: false},
		{name: "previous day", lastReset: "2025-06-14", want: true},
		{name: "previous month", lastReset: "2025-05-15", want: true},
		{name: "future date still differs", lastReset: "2025-06-16", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &EntitlementRecord{LastReset: tt.lastReset}
			assert.Equal(t, tt.want, rec.NeedsDailyReset(now))
		})
	}
}

func TestResetDailyUsagePreservesLifetimeState(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 1, 0, time.UTC)
	sub := &Subscription{PlanID: "daily-premium", ExpiresAt: now.AddDate(0, 1, 0)}
	rec := &EntitlementRecord{
		SwipesUsed:     42,
		SuperLikesUsed: 3,
		TipsGiven:      17,
		LastReset:      "2025-06-14",
		Subscription:   sub,
	}

	rec.ResetDailyUsage(now)

	assert.Equal(t, 0, rec.SwipesUsed)
	assert.Equal(t, 0, rec.SuperLikesUsed)
	assert.Equal(t, 17, rec.TipsGiven, "tipsGiven is a lifetime counter")
	assert.Equal(t, "2025-06-15", rec.LastReset)
	assert.Same(t, sub, rec.Subscription, "subscription untouched by reset")
}

func TestActiveSubscription(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{name: "no subscription", sub: nil, want: false},
		{name: "unexpired", sub: &Subscription{PlanID: "daily-gold", ExpiresAt: now.Add(time.Hour)}, want: true},
		{name: "expired treated as absent", sub: &Subscription{PlanID: "daily-gold", ExpiresAt: now.Add(-time.Hour)}, want: false},
		{name: "expiring exactly now is expired", sub: &Subscription{PlanID: "daily-gold", ExpiresAt: now}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &EntitlementRecord{Subscription: tt.sub}
			got := rec.ActiveSubscription(now)
			if tt.want {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestEntitlementRecordClone(t *testing.T) {
	rec := &EntitlementRecord{
		SwipesUsed:   5,
		TipsGiven:    2,
		LastReset:    "2025-06-15",
		Subscription: &Subscription{PlanID: "daily-basic", ExpiresAt: time.Now()},
	}

	clone := rec.Clone()
	clone.SwipesUsed = 99
	clone.Subscription.PlanID = "changed"

	assert.Equal(t, 5, rec.SwipesUsed)
	assert.Equal(t, "daily-basic", rec.Subscription.PlanID)
}

func TestEntitlementRecordJSONRoundTrip(t *testing.T) {
	expires := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	original := &EntitlementRecord{
		SwipesUsed:     12,
		SuperLikesUsed: 4,
		TipsGiven:      31,
		LastReset:      "2025-06-15",
		Subscription:   &Subscription{PlanID: "daily-premium", ExpiresAt: expires},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded EntitlementRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.SwipesUsed, decoded.SwipesUsed)
	assert.Equal(t, original.SuperLikesUsed, decoded.SuperLikesUsed)
	assert.Equal(t, original.TipsGiven, decoded.TipsGiven)
	assert.Equal(t, original.LastReset, decoded.LastReset)
	require.NotNil(t, decoded.Subscription)
	assert.Equal(t, "daily-premium", decoded.Subscription.PlanID)
	assert.True(t, expires.Equal(decoded.Subscription.ExpiresAt))
}

func TestPlanDurationAddTo(t *testing.T) {
	tests := []struct {
		name     string
		duration PlanDuration
		from     time.Time
		want     time.Time
	}{
		{
			name:     "daily adds one calendar day",
			duration: PlanDurationDaily,
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly preserves day of month",
			duration: PlanDurationMonthly,
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly normalizes past short months",
			duration: PlanDurationMonthly,
			from:     time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "yearly adds one calendar year",
			duration: PlanDurationYearly,
			from:     time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			want:     time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.duration.AddTo(tt.from)))
		})
	}
}
