// Package domain contains core business types and interfaces.
//
// This file defines the EntitlementRecord, the persisted per-identity
// snapshot of consumed quota and active subscription. Records are created
// lazily with zero usage, mutated only through the entitlement store, and
// never deleted.
package domain

import "time"

// ActionKind identifies the kind of gated discovery action.
type ActionKind string

const (
	ActionSwipe     ActionKind = "swipe"
	ActionSuperLike ActionKind = "super_like"
)

// ResetDateLayout is the calendar-date encoding of EntitlementRecord.LastReset.
// Day granularity only; the reset decision compares dates, never elapsed time.
const ResetDateLayout = "2006-01-02"

// Subscription is an active purchased plan attached to a record.
type Subscription struct {
	PlanID    string    `json:"planId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired reports whether the subscription has lapsed at the given time.
// Expired subscriptions are treated as absent by gating even before they
// are purged from storage.
func (s *Subscription) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// EntitlementRecord is the persisted usage/subscription snapshot for one
// identity. Counters round-trip through JSON without loss.
type EntitlementRecord struct {
	SwipesUsed     int    `json:"swipesUsed"`
	SuperLikesUsed int    `json:"superLikesUsed"`
	TipsGiven      int    `json:"tipsGiven"` // lifetime counter, never reset
	LastReset      string `json:"lastReset"` // ResetDateLayout calendar date

	Subscription *Subscription `json:"subscription,omitempty"`
}

// NewEntitlementRecord returns a zero-usage record stamped with today's
// date relative to now.
func NewEntitlementRecord(now time.Time) *EntitlementRecord {
	return &EntitlementRecord{
		LastReset: now.Format(ResetDateLayout),
	}
}

// Clone returns a deep copy of the record.
func (r *EntitlementRecord) Clone() *EntitlementRecord {
	out := *r
	if r.Subscription != nil {
		sub := *r.Subscription
		out.Subscription = &sub
	}
	return &out
}

// NeedsDailyReset reports whether the record's last reset happened on a
// prior calendar day. The comparison trusts the process-local calendar
// date; see the design notes for the accepted clock-manipulation caveat.
func (r *EntitlementRecord) NeedsDailyReset(now time.Time) bool {
	return r.LastReset != now.Format(ResetDateLayout)
}

// ResetDailyUsage zeroes the per-day counters and restamps LastReset.
// TipsGiven and Subscription are untouched.
func (r *EntitlementRecord) ResetDailyUsage(now time.Time) {
	r.SwipesUsed = 0
	r.SuperLikesUsed = 0
	r.LastReset = now.Format(ResetDateLayout)
}

// ActiveSubscription returns the subscription if one exists and has not
// expired at the given time, else nil.
func (r *EntitlementRecord) ActiveSubscription(now time.Time) *Subscription {
	if r.Subscription == nil || r.Subscription.IsExpired(now) {
		return nil
	}
	return r.Subscription
}

// Used returns the consumption counter for the given action kind.
func (r *EntitlementRecord) Used(kind ActionKind) int {
	switch kind {
	case ActionSwipe:
		return r.SwipesUsed
	case ActionSuperLike:
		return r.SuperLikesUsed
	}
	return 0
}
