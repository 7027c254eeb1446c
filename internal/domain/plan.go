// Package domain contains core business types and interfaces.
//
// This file defines the subscription Plan type. Plans are immutable and
// statically enumerated by the catalog package; the duration class drives
// the expiry arithmetic for purchased subscriptions.
package domain

import "time"

// PlanDuration is the duration class of a plan. It determines expiry
// arithmetic in calendar terms, not a fixed wall-clock interval.
type PlanDuration string

const (
	PlanDurationDaily   PlanDuration = "daily"
	PlanDurationMonthly PlanDuration = "monthly"
	PlanDurationYearly  PlanDuration = "yearly"
)

// Valid reports whether d is a known duration class.
func (d PlanDuration) Valid() bool {
	switch d {
	case PlanDurationDaily, PlanDurationMonthly, PlanDurationYearly:
		return true
	}
	return false
}

// AddTo returns t advanced by one calendar unit of the duration class,
// preserving day-of-month where the calendar allows (time.AddDate
// normalization applies otherwise).
func (d PlanDuration) AddTo(t time.Time) time.Time {
	switch d {
	case PlanDurationDaily:
		return t.AddDate(0, 0, 1)
	case PlanDurationMonthly:
		return t.AddDate(0, 1, 0)
	case PlanDurationYearly:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// Plan is a purchasable subscription plan.
type Plan struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Price      Amount       `json:"price"`
	Duration   PlanDuration `json:"duration"`
	Swipes     Quota        `json:"swipes"`
	SuperLikes Quota        `json:"superLikes"`

	// Features are display copy only; nothing in gating reads them.
	Features []string `json:"features"`
}
