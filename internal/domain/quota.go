// Package domain contains core business types and interfaces.
//
// This file defines Quota, the consumable limit attached to plans and the
// free tier. A quota is either a non-negative cap or explicitly unlimited;
// the -1 sentinel from the catalog data is converted at the boundary so the
// rest of the code never compares against a magic number.
package domain

import (
	"fmt"
	"strconv"
)

// unlimitedSentinel is the wire/catalog encoding for an unlimited quota.
const unlimitedSentinel = -1

// Quota is a tagged consumable limit: a non-negative cap or Unlimited.
type Quota struct {
	limit     int
	unlimited bool
}

// LimitedQuota returns a quota capped at n. Negative caps are clamped to zero.
func LimitedQuota(n int) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{limit: n}
}

// UnlimitedQuota returns a quota with no cap.
func UnlimitedQuota() Quota {
	return Quota{unlimited: true}
}

// QuotaFromSentinel converts the catalog convention where -1 means
// unlimited into an explicit Quota value.
func QuotaFromSentinel(n int) Quota {
	if n == unlimitedSentinel {
		return UnlimitedQuota()
	}
	return LimitedQuota(n)
}

// IsUnlimited reports whether the quota has no cap.
func (q Quota) IsUnlimited() bool {
	return q.unlimited
}

// Limit returns the cap. Meaningless when the quota is unlimited.
func (q Quota) Limit() int {
	return q.limit
}

// Allows reports whether one more action is permitted after used
// consumptions.
func (q Quota) Allows(used int) bool {
	return q.unlimited || used < q.limit
}

// Remaining returns how many actions remain given used consumptions.
// unlimited is true when there is no cap, in which case n is meaningless.
func (q Quota) Remaining(used int) (n int, unlimited bool) {
	if q.unlimited {
		return 0, true
	}
	n = q.limit - used
	if n < 0 {
		n = 0
	}
	return n, false
}

func (q Quota) String() string {
	if q.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(q.limit)
}

// MarshalJSON encodes the quota using the -1 sentinel for unlimited,
// matching the persisted catalog convention.
func (q Quota) MarshalJSON() ([]byte, error) {
	if q.unlimited {
		return []byte(strconv.Itoa(unlimitedSentinel)), nil
	}
	return []byte(strconv.Itoa(q.limit)), nil
}

// UnmarshalJSON decodes a quota from its sentinel encoding.
func (q *Quota) UnmarshalJSON(data []byte) error {
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid quota: %w", err)
	}
	if n < unlimitedSentinel {
		return fmt.Errorf("invalid quota: %d", n)
	}
	*q = QuotaFromSentinel(n)
	return nil
}
