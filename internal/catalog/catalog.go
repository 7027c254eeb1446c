// Package catalog holds the static plan catalog.
//
// Plans are a fixed, versionless in-memory table; they never leave the
// process in any wire format other than the JSON the API emits. Within a
// duration class the catalog lists plans ordered by ascending price — that
// ordering is for display only and gating does not rely on it.
package catalog

import (
	"sort"

	"github.com/celosoul/celosoul/internal/domain"
)

var plans = []domain.Plan{
	{
		ID:         "daily-basic",
		Name:       "Daily Basic",
		Price:      domain.MustParseAmount("3"),
		Duration:   domain.PlanDurationDaily,
		Swipes:     domain.LimitedQuota(50),
		SuperLikes: domain.LimitedQuota(5),
		Features:   []string{"50 daily swipes", "5 super likes", "Basic matching"},
	},
	{
		ID:         "daily-premium",
		Name:       "Daily Premium",
		Price:      domain.MustParseAmount("5"),
		Duration:   domain.PlanDurationDaily,
		Swipes:     domain.LimitedQuota(100),
		SuperLikes: domain.LimitedQuota(10),
		Features:   []string{"100 daily swipes", "10 super likes", "Priority matching", "See who liked you"},
	},
	{
		ID:         "daily-gold",
		Name:       "Daily Gold",
		Price:      domain.MustParseAmount("7"),
		Duration:   domain.PlanDurationDaily,
		Swipes:     domain.UnlimitedQuota(),
		SuperLikes: domain.LimitedQuota(20),
		Features:   []string{"Unlimited swipes", "20 super likes", "Boost profile", "Advanced filters"},
	},
}

var plansByID = func() map[string]domain.Plan {
	m := make(map[string]domain.Plan, len(plans))
	for _, p := range plans {
		m[p.ID] = p
	}
	return m
}()

// Resolve looks up a plan by ID.
func Resolve(planID string) (domain.Plan, bool) {
	p, ok := plansByID[planID]
	return p, ok
}

// All returns the catalog sorted by price within each duration class.
// The returned slice is a copy.
func All() []domain.Plan {
	out := make([]domain.Plan, len(plans))
	copy(out, plans)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration < out[j].Duration
		}
		return out[i].Price.Wei().Cmp(out[j].Price.Wei()) < 0
	})
	return out
}
